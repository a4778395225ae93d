package models

// UnsignedTransaction is a transaction payload without nonce, gas or signature,
// meant to be reviewed and signed out of band.
type UnsignedTransaction struct {
	// To is empty for contract creation
	To string `json:"to"`
	// Value is the amount in wei as a decimal string, empty when zero
	Value string `json:"value"`
	// Data is the 0x-prefixed call or creation payload
	Data string `json:"data"`
}

// UnsignedDeploymentTransaction is an UnsignedTransaction that creates a contract
type UnsignedDeploymentTransaction = UnsignedTransaction

// IsCreation reports whether the transaction deploys a new contract
func (t *UnsignedTransaction) IsCreation() bool {
	return t.To == ""
}
