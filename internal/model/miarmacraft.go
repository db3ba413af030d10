package model

import (
	"time"

	"github.com/miarma/api/internal/entity"
)

type ModStatus int

const (
	ModStatusInactive ModStatus = iota
	ModStatusActive
)

// Mod is a game server modification offered for download.
type Mod struct {
	ID        int64      `json:"mod_id"`
	Name      string     `json:"name"`
	Filename  string     `json:"filename"`
	Size      int64      `json:"size"`
	Status    ModStatus  `json:"status"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func (Mod) Schema() entity.Schema[Mod] {
	return entity.Schema[Mod]{
		Table: "miarmacraft_mods",
		Columns: []entity.Column[Mod]{
			entity.Col("mod_id", func(m *Mod) *int64 { return &m.ID }).Generated(),
			entity.Col("name", func(m *Mod) *string { return &m.Name }),
			entity.Col("filename", func(m *Mod) *string { return &m.Filename }),
			entity.Col("size", func(m *Mod) *int64 { return &m.Size }),
			entity.Col("status", func(m *Mod) *ModStatus { return &m.Status }).As(entity.KindInt),
			entity.NullCol("created_at", func(m *Mod) **time.Time { return &m.CreatedAt }),
			entity.NullCol("updated_at", func(m *Mod) **time.Time { return &m.UpdatedAt }),
		},
	}
}
