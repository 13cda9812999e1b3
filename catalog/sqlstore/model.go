package sqlstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-gem-catalog/catalog"
	"github.com/goliatone/go-gem-catalog/query"
)

// gemRow is the table model. Seq is the insertion sequence and breaks sort
// ties the same way the in-memory backend does. The *_norm columns hold
// query.NormalizeText of their source column and are what filters compare
// against.
type gemRow struct {
	bun.BaseModel `bun:"table:gems,alias:g"`

	Seq                int64  `bun:"seq,pk,autoincrement"`
	ID                 string `bun:"id,type:varchar(36),unique,notnull"`
	Name               string `bun:"name,notnull"`
	Image              string `bun:"image,notnull"`
	MagicalDescription string `bun:"magical_description,notnull"`
	Category           string `bun:"category,notnull"`
	Color              string `bun:"color,notnull"`
	ChemicalFormula    string `bun:"chemical_formula,notnull"`

	NameNorm        string `bun:"name_norm,notnull"`
	DescriptionNorm string `bun:"description_norm,notnull"`
	CategoryNorm    string `bun:"category_norm,notnull"`
	ColorNorm       string `bun:"color_norm,notnull"`
	FormulaNorm     string `bun:"formula_norm,notnull"`

	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func newRow(g catalog.Gem, now time.Time) *gemRow {
	r := &gemRow{CreatedAt: now}
	r.assign(g, now)
	return r
}

// assign copies the gem attributes and refreshes the shadow columns. Seq and
// CreatedAt are left alone.
func (r *gemRow) assign(g catalog.Gem, now time.Time) {
	r.ID = g.ID.String()
	r.Name = g.Name
	r.Image = g.Image
	r.MagicalDescription = g.MagicalDescription
	r.Category = g.Category
	r.Color = g.Color
	r.ChemicalFormula = g.ChemicalFormula

	r.NameNorm = query.NormalizeText(g.Name)
	r.DescriptionNorm = query.NormalizeText(g.MagicalDescription)
	r.CategoryNorm = query.NormalizeText(g.Category)
	r.ColorNorm = query.NormalizeText(g.Color)
	r.FormulaNorm = query.NormalizeText(g.ChemicalFormula)

	r.UpdatedAt = now
}

func (r *gemRow) toGem() catalog.Gem {
	id, _ := uuid.Parse(r.ID)
	return catalog.Gem{
		ID:                 id,
		Name:               r.Name,
		Image:              r.Image,
		MagicalDescription: r.MagicalDescription,
		Category:           r.Category,
		Color:              r.Color,
		ChemicalFormula:    r.ChemicalFormula,
	}
}

func toGems(rows []gemRow) []catalog.Gem {
	out := make([]catalog.Gem, len(rows))
	for i := range rows {
		out[i] = rows[i].toGem()
	}
	return out
}

// column maps a query field to the column holding its raw value.
var column = map[query.Field]string{
	query.FieldName:            "name",
	query.FieldColor:           "color",
	query.FieldCategory:        "category",
	query.FieldChemicalFormula: "chemical_formula",
	query.FieldDescription:     "magical_description",
}

// normColumn maps a query field to its normalized shadow column.
var normColumn = map[query.Field]string{
	query.FieldName:            "name_norm",
	query.FieldColor:           "color_norm",
	query.FieldCategory:        "category_norm",
	query.FieldChemicalFormula: "formula_norm",
	query.FieldDescription:     "description_norm",
}
