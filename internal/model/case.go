package model

// Case is one subject in a batch: the two bureau documents on disk plus the
// contact details the report is matched against
type Case struct {
	ID     string `yaml:"id" json:"id"`
	Report string `yaml:"report" json:"report"` // credit report XML path
	Score  string `yaml:"score" json:"score"`   // credit score XML path, optional
	Phone  string `yaml:"phone" json:"phone"`
	Email  string `yaml:"email" json:"email"`
}

// Manifest lists the cases of a batch run
type Manifest struct {
	Cases []Case `yaml:"cases"`
}
