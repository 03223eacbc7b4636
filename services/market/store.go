package market

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	CurrenciesFile = "currencies.json"
	GoldFile       = "gold.json"
	CryptoFile     = "crypto.json"
)

// Store persists the per-category documents as whole JSON files, the
// contract the front-end consumes them under.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) WriteCurrencies(doc CurrencyDocument) error {
	return s.write(CurrenciesFile, len(doc.Rates), doc)
}

func (s *Store) WriteGold(doc GoldDocument) error {
	return s.write(GoldFile, len(doc.Prices), doc)
}

func (s *Store) WriteCrypto(doc CryptoDocument) error {
	return s.write(CryptoFile, len(doc.Prices), doc)
}

func (s *Store) ReadCurrencies() (CurrencyDocument, error) {
	var doc CurrencyDocument
	err := s.read(CurrenciesFile, &doc)
	return doc, err
}

func (s *Store) ReadGold() (GoldDocument, error) {
	var doc GoldDocument
	err := s.read(GoldFile, &doc)
	return doc, err
}

func (s *Store) ReadCrypto() (CryptoDocument, error) {
	var doc CryptoDocument
	err := s.read(CryptoFile, &doc)
	return doc, err
}

// write replaces the category file in one rename so consumers never see
// a partial document. A run that extracted zero records leaves an
// existing file untouched, stale data beats no data.
func (s *Store) write(name string, records int, doc any) error {
	path := filepath.Join(s.dir, name)

	if records == 0 {
		if _, err := os.Stat(path); err == nil {
			slog.Info("no records extracted, keeping existing data", "file", path)
			return nil
		}
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, name+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	slog.Info("saved", "file", path, "records", records)
	return nil
}

func (s *Store) read(name string, out any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("malformed document %s: %w", name, err)
	}
	return nil
}
