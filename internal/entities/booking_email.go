package entities

type BookingEmailData struct {
	UserName    string
	BookingCode string
	TurfName    string
	Date        string
	Slot        string
	Status      string
	CurrentYear int
}
