// Package datasets resolves dataset references with tenant scoping.
package datasets

import (
	"fmt"

	"github.com/parleylabs/parley/appconfig"
	"github.com/parleylabs/parley/stores"
)

// Service looks datasets up in the conversation store. It implements
// appconfig.DatasetLookup.
type Service struct {
	Store stores.ConversationStore
}

func NewService(store stores.ConversationStore) *Service {
	return &Service{Store: store}
}

// GetDataset returns the dataset with the given ID, or nil when it does not
// exist. Tenant checks are the caller's concern; the validator compares the
// returned TenantID against the caller's tenant.
func (s *Service) GetDataset(datasetID string) (*appconfig.Dataset, error) {
	ds, err := s.Store.GetDataset(datasetID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset %s: %w", datasetID, err)
	}
	if ds == nil {
		return nil, nil
	}
	return &appconfig.Dataset{ID: ds.DatasetID, TenantID: ds.TenantID}, nil
}

// IsDatasetOwned reports whether the dataset exists and belongs to the
// account's current tenant.
func (s *Service) IsDatasetOwned(account appconfig.Account, datasetID string) (bool, error) {
	ds, err := s.GetDataset(datasetID)
	if err != nil {
		return false, err
	}
	return ds != nil && ds.TenantID == account.CurrentTenantID, nil
}
