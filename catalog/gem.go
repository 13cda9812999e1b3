package catalog

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-gem-catalog/query"
)

// Defaults applied to incomplete records read from a data file.
const (
	DefaultDescription = "Una gema con propiedades místicas especiales."
	DefaultCategory    = "Mineral"
	DefaultColor       = "Desconocido"
	DefaultFormula     = "N/A"

	// MaxNameLength bounds gem names, in runes.
	MaxNameLength = 200
)

// Gem is a catalog record.
type Gem struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Image              string    `json:"image"`
	MagicalDescription string    `json:"magical_description"`
	Category           string    `json:"category"`
	Color              string    `json:"color"`
	ChemicalFormula    string    `json:"chemical_formula"`
}

// FieldValue exposes the filterable attributes to the query package.
func (g Gem) FieldValue(field query.Field) string {
	switch field {
	case query.FieldName:
		return g.Name
	case query.FieldColor:
		return g.Color
	case query.FieldCategory:
		return g.Category
	case query.FieldChemicalFormula:
		return g.ChemicalFormula
	case query.FieldDescription:
		return g.MagicalDescription
	}
	return ""
}

var imageNameFolder = strings.NewReplacer(" ", "-")

// ImageFilename derives the image file stem from a gem name:
// "Ágata Azul" becomes "agata-azul".
func ImageFilename(name string) string {
	return imageNameFolder.Replace(query.NormalizeText(name))
}

// ImagePath returns the default image path for a gem name.
func ImagePath(name string) string {
	return "images/" + ImageFilename(name) + ".jpg"
}

// Repair fills empty attributes with catalog defaults and assigns an ID when
// missing. It reports false when the gem has no name and should be dropped.
func (g *Gem) Repair() bool {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.Image == "" || g.Image == "images/.jpg" {
		g.Image = ImagePath(g.Name)
	}
	if g.MagicalDescription == "" {
		g.MagicalDescription = DefaultDescription
	}
	if g.Category == "" {
		g.Category = DefaultCategory
	}
	if g.Color == "" {
		g.Color = DefaultColor
	}
	if g.ChemicalFormula == "" {
		g.ChemicalFormula = DefaultFormula
	}
	return strings.TrimSpace(g.Name) != ""
}

// CreateGemRequest carries the writable attributes of a gem.
type CreateGemRequest struct {
	Name               string `json:"name"`
	MagicalDescription string `json:"magical_description"`
	Category           string `json:"category"`
	Color              string `json:"color"`
	ChemicalFormula    string `json:"chemical_formula"`
}

// Validate checks the request with ozzo-validation and returns a go-errors
// validation error listing every failing field.
func (r CreateGemRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.RuneLength(1, MaxNameLength)),
		validation.Field(&r.Category, validation.Required),
		validation.Field(&r.Color, validation.Required),
		validation.Field(&r.ChemicalFormula, validation.Required),
	)
	if err != nil {
		return errors.FromOzzoValidation(err, "invalid gem request").
			WithTextCode(TextCodeInvalidRequest)
	}
	return nil
}

// ToGem builds a new gem with a fresh ID and the default image path.
func (r CreateGemRequest) ToGem() Gem {
	return Gem{
		ID:                 uuid.New(),
		Name:               r.Name,
		Image:              ImagePath(r.Name),
		MagicalDescription: r.MagicalDescription,
		Category:           r.Category,
		Color:              r.Color,
		ChemicalFormula:    r.ChemicalFormula,
	}
}

// ApplyTo returns existing with the request's attributes. ID and image are
// kept.
func (r CreateGemRequest) ApplyTo(existing Gem) Gem {
	existing.Name = r.Name
	existing.MagicalDescription = r.MagicalDescription
	existing.Category = r.Category
	existing.Color = r.Color
	existing.ChemicalFormula = r.ChemicalFormula
	return existing
}
