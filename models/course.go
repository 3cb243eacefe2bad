package models

// Course describes a golf course and its tee ratings.
// Slope is the USGA slope rating (113 = neutral), Rating the expected
// scratch score. Both feed the handicap calculations in the golf package.
type Course struct {
	ID          int     `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	City        *string `json:"city,omitempty" db:"city"`
	ParTotal    int     `json:"par_total" db:"par_total"`
	Slope       int     `json:"slope" db:"slope"`
	Rating      float64 `json:"rating" db:"rating"`
	MetersTotal *int    `json:"meters_total,omitempty" db:"meters_total"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	// Loaded by the service layer, not mapped directly.
	Holes []Hole `json:"holes,omitempty" db:"-"`
}

// Hole is one of the 18 holes configured for a course.
// StrokeIndex ranks difficulty (1 = hardest) and decides which holes
// receive extra allowance strokes first.
type Hole struct {
	ID          int  `json:"id" db:"id"`
	CourseID    int  `json:"course_id" db:"course_id"`
	Number      int  `json:"number" db:"number"`
	Par         int  `json:"par" db:"par"`
	StrokeIndex int  `json:"stroke_index" db:"stroke_index"`
	Meters      *int `json:"meters,omitempty" db:"meters"`
}
