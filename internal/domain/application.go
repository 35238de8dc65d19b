package domain

// ApplicationForm is what the applicant declared. It is treated as ground
// truth that the submitted documents are checked against.
type ApplicationForm struct {
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	DateOfBirth  string `json:"dateOfBirth" validate:"required"`
	ZipCode      string `json:"zipCode" validate:"required"`
	AddressLine1 string `json:"addressLine1" validate:"required"`
}

// FullName joins first and last name with a single space.
func (f ApplicationForm) FullName() string {
	return f.FirstName + " " + f.LastName
}

// BiometricResult is the Biometric Comparator's verdict on an ID photo vs a
// live selfie.
type BiometricResult struct {
	MatchScore float64 `json:"matchScore" validate:"gte=0,lte=100"`
	IsMatch    bool    `json:"isMatch"`
	Reasoning  string  `json:"reasoning"`
}

// ApplicationBundle carries every document submitted with one application.
// Any document may be absent; the matching check is then skipped.
type ApplicationBundle struct {
	Form          ApplicationForm     `json:"form"`
	Identity      *ExtractedDocument  `json:"identity,omitempty"`
	Paystubs      []ExtractedDocument `json:"paystubs,omitempty"`
	BankStatement *ExtractedDocument  `json:"bankStatement,omitempty"`
	AddressProof  *ExtractedDocument  `json:"addressProof,omitempty"`
	Biometric     *BiometricResult    `json:"biometric,omitempty"`
}
