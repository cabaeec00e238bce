package p6screen

import (
	"database/sql"
	"fmt"

	"github.com/bodgit/p6screen/screen"
	_ "github.com/mattn/go-sqlite3"
)

// Screen is a converted screen as stored in the database.
type Screen struct {
	Name    string
	SHA1    string // Of the source image file
	Options screen.Options
	Data    []byte
}

// ScreenDB is a library of converted screens backed by SQLite.
type ScreenDB struct {
	db *sql.DB
}

// NewScreenDB opens or creates the database in file
func NewScreenDB(file string) (*ScreenDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS screen (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE, sha1 TEXT NOT NULL, mode INTEGER NOT NULL, colorset INTEGER, width INTEGER NOT NULL, height INTEGER NOT NULL, data BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &ScreenDB{
		db: db,
	}, nil
}

// Close closes the database
func (db *ScreenDB) Close() error {
	return db.db.Close()
}

// Add stores s, replacing any existing screen with the same name
func (db *ScreenDB) Add(s *Screen) (int64, error) {
	var colorSet sql.NullInt64
	if s.Options.Mode == screen.FourColor {
		colorSet.Int64 = int64(s.Options.ColorSet)
		colorSet.Valid = true
	}

	w, h := s.Options.Size()
	result, err := db.db.Exec("INSERT OR REPLACE INTO screen (name, sha1, mode, colorset, width, height, data) VALUES (?, ?, ?, ?, ?, ?, ?)", s.Name, s.SHA1, int64(s.Options.Mode), colorSet, w, h, s.Data)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// Find returns the named screen or nil if there is no match
func (db *ScreenDB) Find(name string) (*Screen, error) {
	var mode int64
	var colorSet sql.NullInt64
	s := Screen{Name: name}
	switch err := db.db.QueryRow("SELECT sha1, mode, colorset, width, height, data FROM screen WHERE name = ?", name).Scan(&s.SHA1, &mode, &colorSet, &s.Options.Width, &s.Options.Height, &s.Data); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		s.Options.Mode = screen.Mode(mode)
		if colorSet.Valid {
			s.Options.ColorSet = screen.ColorSet(colorSet.Int64)
		}
		return &s, nil
	default:
		return nil, err
	}
}

// Names returns the name of every stored screen in order
func (db *ScreenDB) Names() ([]string, error) {
	rows, err := db.db.Query("SELECT name FROM screen ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Export writes the data of the named screen to out
func (db *ScreenDB) Export(name, out string) error {
	s, err := db.Find(name)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("no screen named \"%s\"", name)
	}
	return writeFile(out, s.Data)
}
