package audit

import (
	"context"

	"github.com/bryanwahyu/forensic-audit/internal/domain/analysis"
)

// Dossier is everything an export needs from one session.
type Dossier struct {
	Session   SessionContext
	Profile   ClientProfile
	Inventory []InventoryItem
	Report    *analysis.Report
}

// DossierExporter port (XLSX dan lain-lain)
type DossierExporter interface {
	ExportDossier(ctx context.Context, d Dossier) ([]byte, error)
	ContentType() string
}
