package catalogs

import (
	"time"

	"github.com/angelmondragon/fillytrckr-backend/pkg/db/models"
)

// EntryDTO is the wire shape of a catalog entry.
type EntryDTO struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toDTO(e models.CatalogEntry) EntryDTO {
	return EntryDTO{ID: e.ID, Name: e.Name, CreatedAt: e.CreatedAt.UTC()}
}
