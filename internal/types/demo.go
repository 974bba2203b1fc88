package types

// Item is one element of the POST /submit body. Pointers make a missing
// key distinguishable from a zero value.
type Item struct {
	Name *string `json:"name" validate:"required"`
	Age  *int    `json:"age"  validate:"required"`
	ID   *int    `json:"id"   validate:"required"`
	USN  *string `json:"usn"`
}
