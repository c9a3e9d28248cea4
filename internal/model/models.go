package model

// All lists every table the self-hosted backend migrates.
func All() []interface{} {
	return []interface{}{
		&Account{},
		&Profile{},
		&Book{},
		&CartItem{},
	}
}
