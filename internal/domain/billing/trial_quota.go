package billing

import "github.com/shopspring/decimal"

// Trial tier limits. These are fixed values handed to every new tenant;
// nothing here is derived from registration input.
const (
	trialStorageMB    = 1024
	trialMaxProjects  = 5
	trialMaxDocuments = 100
)

var trialTokenAllowance = decimal.NewFromInt(500)

// TrialQuota bundles the resource ceilings of the trial tier
type TrialQuota struct {
	StorageMB      int64           `json:"storage_mb"`
	TokenAllowance decimal.Decimal `json:"token_allowance"`
	MaxProjects    int             `json:"max_projects"`
	MaxDocuments   int             `json:"max_documents"`
}

// NewTrialQuota returns the fixed trial-tier quota
func NewTrialQuota() TrialQuota {
	return TrialQuota{
		StorageMB:      trialStorageMB,
		TokenAllowance: trialTokenAllowance,
		MaxProjects:    trialMaxProjects,
		MaxDocuments:   trialMaxDocuments,
	}
}
