package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/pashield/pashield/internal/client/api"
)

func (a *App) promptEntry() (*api.EntryRequest, error) {
	location, err := GetSimpleText(a.reader, "Enter location (site or service):", os.Stdout)
	if err != nil {
		return nil, err
	}
	username, err := GetSimpleText(a.reader, "Enter username:", os.Stdout)
	if err != nil {
		return nil, err
	}
	pw, err := GetPassword(os.Stdout)
	if err != nil {
		return nil, err
	}
	return &api.EntryRequest{Location: location, Username: username, Password: string(pw)}, nil
}

func (a *App) List(ctx context.Context) error {
	items, err := a.client.ListEntries(ctx, 0, 100)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	if len(items) == 0 {
		printlnFn("Vault is empty")
		return nil
	}
	for _, item := range items {
		printlnFn(fmt.Sprintf("%s  %s / %s", item.ID, item.Location, item.Username))
	}
	return nil
}

func (a *App) Add(ctx context.Context) error {
	entry, err := a.promptEntry()
	if err != nil {
		return err
	}

	created, err := a.client.CreateEntry(ctx, entry)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn("Created entry", created.ID)
	return nil
}

func (a *App) Show(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Enter entry id:", os.Stdout)
	if err != nil {
		return err
	}

	entry, err := a.client.GetEntry(ctx, id)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn("Location:", entry.Location)
	printlnFn("Username:", entry.Username)
	printlnFn("Password:", entry.Password)
	return nil
}

func (a *App) Update(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Enter entry id:", os.Stdout)
	if err != nil {
		return err
	}
	entry, err := a.promptEntry()
	if err != nil {
		return err
	}

	if _, err := a.client.UpdateEntry(ctx, id, entry); err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn("Updated entry", id)
	return nil
}

func (a *App) Delete(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Enter entry id:", os.Stdout)
	if err != nil {
		return err
	}

	deleted, err := a.client.DeleteEntry(ctx, id)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn("Deleted entry for", deleted.Location)
	return nil
}

func (a *App) DeleteAll(ctx context.Context) error {
	confirm, err := GetSimpleText(a.reader, "Type 'yes' to delete every stored password:", os.Stdout)
	if err != nil {
		return err
	}
	if confirm != "yes" {
		printlnFn("Cancelled")
		return nil
	}

	if err := a.client.DeleteAllEntries(ctx); err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn("Vault emptied")
	return nil
}
