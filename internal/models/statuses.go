package models

type PropertyType string
type Currency string
type PaymentInterval int
type RentalStatus string
type ActivityType string

const (
	PropertyTypeRoom      PropertyType = "R"
	PropertyTypeApartment PropertyType = "A"
	PropertyTypeHouse     PropertyType = "H"
	PropertyTypeVilla     PropertyType = "V"
	PropertyTypeOffice    PropertyType = "O"
	PropertyTypeStore     PropertyType = "S"

	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencySDG Currency = "SDG"
	CurrencyEGP Currency = "EGP"

	PaymentDaily   PaymentInterval = 1
	PaymentWeekly  PaymentInterval = 7
	PaymentMonthly PaymentInterval = 30
	PaymentYearly  PaymentInterval = 365

	RentalStatusPaid    RentalStatus = "paid"
	RentalStatusUnpaid  RentalStatus = "unpaid"
	RentalStatusPending RentalStatus = "pending"
	RentalStatusOverdue RentalStatus = "overdue"

	ActivityAdd      ActivityType = "add"
	ActivityRent     ActivityType = "rent"
	ActivityPayment  ActivityType = "payment"
	ActivityOverdue  ActivityType = "overdue"
	ActivityContract ActivityType = "contract"
)

var propertyTypeLabels = map[PropertyType]string{
	PropertyTypeRoom:      "Room",
	PropertyTypeApartment: "Apartment",
	PropertyTypeHouse:     "House",
	PropertyTypeVilla:     "Villa",
	PropertyTypeOffice:    "Office",
	PropertyTypeStore:     "Store",
}

func (t PropertyType) IsValid() bool {
	_, ok := propertyTypeLabels[t]
	return ok
}

func (t PropertyType) Label() string {
	return propertyTypeLabels[t]
}

func (c Currency) IsValid() bool {
	switch c {
	case CurrencyUSD, CurrencyEUR, CurrencySDG, CurrencyEGP:
		return true
	}
	return false
}

// countryCurrency: валюта по умолчанию для страны, всё остальное USD
var countryCurrency = map[string]Currency{
	"US": CurrencyUSD,
	"EU": CurrencyEUR,
	"SD": CurrencySDG,
	"EG": CurrencyEGP,
}

// CurrencyForCountry возвращает валюту по коду страны (ISO alpha-2)
func CurrencyForCountry(country string) Currency {
	if c, ok := countryCurrency[country]; ok {
		return c
	}
	return CurrencyUSD
}

func (p PaymentInterval) IsValid() bool {
	switch p {
	case PaymentDaily, PaymentWeekly, PaymentMonthly, PaymentYearly:
		return true
	}
	return false
}

// Period: подпись периода оплаты ("за месяц" и т.п.)
func (p PaymentInterval) Period() string {
	switch p {
	case PaymentWeekly:
		return "week"
	case PaymentMonthly:
		return "month"
	case PaymentYearly:
		return "year"
	default:
		return "day"
	}
}

func (p PaymentInterval) Label() string {
	switch p {
	case PaymentWeekly:
		return "Weekly"
	case PaymentMonthly:
		return "Monthly"
	case PaymentYearly:
		return "Yearly"
	default:
		return "Daily"
	}
}

func (s RentalStatus) IsValid() bool {
	switch s {
	case RentalStatusPaid, RentalStatusUnpaid, RentalStatusPending, RentalStatusOverdue:
		return true
	}
	return false
}
