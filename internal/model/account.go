package model

// Account links a Breeze donor ID to the Zelle payer names known for it.
type Account struct {
	ID      int
	Aliases []string // payer names as they appear in narrations
}
