package interfaces

import "agd/internal/models"

type PersisterInterface interface {
	SaveToFile(fileName string, snap *models.Snapshot) error
	LoadFromFile(fileName string) (*models.Snapshot, error)
}
