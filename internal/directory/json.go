package directory

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/breezeport-dev/breezeport/internal/model"
)

// wireAccount is the JSON backup shape for one account.
type wireAccount struct {
	ID            int      `json:"id"`
	ZelleAccounts []string `json:"zelleAccounts"`
}

// WriteJSON writes accounts as a JSON array for backup or transfer to
// another install.
func WriteJSON(w io.Writer, accounts []model.Account) error {
	wire := make([]wireAccount, len(accounts))
	for i, a := range accounts {
		aliases := a.Aliases
		if aliases == nil {
			aliases = []string{}
		}
		wire[i] = wireAccount{ID: a.ID, ZelleAccounts: aliases}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(wire); err != nil {
		return fmt.Errorf("encoding directory: %w", err)
	}
	return nil
}

// ReadJSON reads a JSON backup produced by WriteJSON.
func ReadJSON(r io.Reader) ([]model.Account, error) {
	var wire []wireAccount
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decoding directory: %w", err)
	}

	accounts := make([]model.Account, len(wire))
	for i, w := range wire {
		accounts[i] = model.Account{ID: w.ID, Aliases: w.ZelleAccounts}
	}
	return accounts, nil
}
