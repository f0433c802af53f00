package models

type Genre struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"unique;not null"`
}

func (Genre) TableName() string {
	return "genres"
}

// CatalogGenres is the fixed genre enumeration. Seeded at startup; novel
// submissions may only reference names from this set.
var CatalogGenres = []string{
	"fantasy",
	"sci-fi",
	"romance",
	"mystery",
	"horror",
	"thriller",
	"historical",
	"adventure",
	"literary",
	"other",
}

// IsCatalogGenre reports whether name belongs to the fixed enumeration.
func IsCatalogGenre(name string) bool {
	for _, g := range CatalogGenres {
		if g == name {
			return true
		}
	}
	return false
}
