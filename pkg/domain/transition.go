package domain

// Transition records a single consumed symbol.
// Output is the output of To, the state entered.
type Transition struct {
	From   StateID `json:"from"`
	Symbol Symbol  `json:"symbol"`
	To     StateID `json:"to"`
	Output Output  `json:"output"`
}
