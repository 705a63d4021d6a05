package core

// TransactionCategory is a closed enum partitioned by transaction type:
// the income and expense sets are disjoint.
type TransactionCategory string

const (
	Salary      TransactionCategory = "salary"
	Freelance   TransactionCategory = "freelance"
	Investment  TransactionCategory = "investment"
	Gift        TransactionCategory = "gift"
	OtherIncome TransactionCategory = "other_income"

	Food          TransactionCategory = "food"
	Transport     TransactionCategory = "transport"
	Housing       TransactionCategory = "housing"
	Entertainment TransactionCategory = "entertainment"
	Healthcare    TransactionCategory = "healthcare"
	Education     TransactionCategory = "education"
	Shopping      TransactionCategory = "shopping"
	Utilities     TransactionCategory = "utilities"
	OtherExpense  TransactionCategory = "other_expense"
)

// IncomeCategories and ExpenseCategories fix the option ordering consumed
// by presentation layers.
var (
	IncomeCategories = []TransactionCategory{
		Salary, Freelance, Investment, Gift, OtherIncome,
	}
	ExpenseCategories = []TransactionCategory{
		Food, Transport, Housing, Entertainment, Healthcare,
		Education, Shopping, Utilities, OtherExpense,
	}
)

var categoryLabels = map[TransactionCategory]string{
	Salary:      "Salary",
	Freelance:   "Freelance",
	Investment:  "Investment",
	Gift:        "Gift",
	OtherIncome: "Other income",

	Food:          "Food",
	Transport:     "Transport",
	Housing:       "Housing",
	Entertainment: "Entertainment",
	Healthcare:    "Healthcare",
	Education:     "Education",
	Shopping:      "Shopping",
	Utilities:     "Utilities",
	OtherExpense:  "Other expenses",
}

var categoryTypes = func() map[TransactionCategory]TransactionType {
	m := make(map[TransactionCategory]TransactionType, len(IncomeCategories)+len(ExpenseCategories))
	for _, c := range IncomeCategories {
		m[c] = Income
	}
	for _, c := range ExpenseCategories {
		m[c] = Expense
	}
	return m
}()

// CategoryOption pairs a category value with its display label.
type CategoryOption struct {
	Value TransactionCategory `json:"value"`
	Label string              `json:"label"`
}

func (c TransactionCategory) Valid() bool {
	_, ok := categoryTypes[c]
	return ok
}

// MatchesType reports whether the category belongs to the given type's set.
func (c TransactionCategory) MatchesType(tt TransactionType) bool {
	return categoryTypes[c] == tt
}

// Label returns the display label, or the raw value for unknown categories.
func (c TransactionCategory) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// CategoriesByType returns the ordered option list for a transaction type.
func CategoriesByType(tt TransactionType) []CategoryOption {
	cats := ExpenseCategories
	if tt == Income {
		cats = IncomeCategories
	}
	opts := make([]CategoryOption, len(cats))
	for i, c := range cats {
		opts[i] = CategoryOption{Value: c, Label: c.Label()}
	}
	return opts
}
