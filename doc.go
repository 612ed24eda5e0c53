// Package crud provides Factory, a generic accessor that performs create,
// list, get, update and delete for a single Bun record type against a
// caller-owned unit of work.
//
// Each mutating call commits the unit of work it is given:
//
//	session := database.NewSession(db)
//	defer session.Close()
//
//	wallets, _ := crud.NewFactory[models.Wallet](db, crud.Mapper[models.Wallet]{Build: models.BuildWallet})
//	w, err := wallets.Create(ctx, session, models.WalletPayload{Name: "main", Currency: "USD"})
package crud
