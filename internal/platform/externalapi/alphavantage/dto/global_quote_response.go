// Package dto defines data transfer objects for the Alpha Vantage API responses.
package dto

// GlobalQuoteResponse represents the JSON response of function=GLOBAL_QUOTE.
// On errors or throttling the quote object is missing and one of the message
// fields is set instead.
type GlobalQuoteResponse struct {
	GlobalQuote  *GlobalQuote `json:"Global Quote,omitempty"`
	ErrorMessage string       `json:"Error Message,omitempty"`
	Note         string       `json:"Note,omitempty"`
	Information  string       `json:"Information,omitempty"`
}

// GlobalQuote is the nested quote object. All values are textual.
type GlobalQuote struct {
	Symbol           string `json:"01. symbol"`
	Open             string `json:"02. open"`
	High             string `json:"03. high"`
	Low              string `json:"04. low"`
	Price            string `json:"05. price"`
	Volume           string `json:"06. volume"`
	LatestTradingDay string `json:"07. latest trading day"`
	PreviousClose    string `json:"08. previous close"`
	Change           string `json:"09. change"`
	ChangePercent    string `json:"10. change percent"`
}

// Message returns the first non-empty diagnostic message of the response.
func (r GlobalQuoteResponse) Message() string {
	switch {
	case r.ErrorMessage != "":
		return r.ErrorMessage
	case r.Note != "":
		return r.Note
	default:
		return r.Information
	}
}
