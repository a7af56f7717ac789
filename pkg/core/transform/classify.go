package transform

import "strings"

// keywordRule pairs a set of case-insensitive substrings with the category
// assigned when any of them matches. Rules are evaluated in declaration order
// and the first hit wins, which preserves the tie-break semantics the website
// figures were built on.
type keywordRule struct {
	keywords []string
	category string
}

var transactionTypeRules = []keywordRule{
	{[]string{"fee"}, "Service"},
	{[]string{"hearing", "aid"}, "Hearing Aid"},
	{[]string{"accessory", "battery"}, "Accessory"},
	{[]string{"repair", "warranty"}, "Repair"},
}

var productCategoryRules = []keywordRule{
	{[]string{"hearing", "aid"}, "Hearing Aid"},
	{[]string{"battery", "batteries"}, "Battery"},
	{[]string{"ear mold", "earmold", "mold"}, "Ear Mold"},
	{[]string{"accessory", "dome", "receiver", "charger"}, "Accessory"},
	{[]string{"service", "fee", "fitting"}, "Service"},
}

const categoryOther = "Other"

func classify(text string, rules []keywordRule) string {
	lower := strings.ToLower(text)
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return categoryOther
}

// ClassifyTransactionType buckets the free-text "type" column.
func ClassifyTransactionType(text string) string {
	return classify(text, transactionTypeRules)
}

// ClassifyProductCategory buckets the free-text "product" column.
func ClassifyProductCategory(text string) string {
	return classify(text, productCategoryRules)
}
