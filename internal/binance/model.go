package binance

// TickerResponse is the wire format of the Binance ticker price endpoint.
// The price is a string-typed decimal in the response body.
type TickerResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}
