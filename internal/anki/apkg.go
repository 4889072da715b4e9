package anki

import (
	"archive/zip"
	"context"
	"crypto/sha1"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	_ "github.com/mattn/go-sqlite3"
)

// ErrDuplicate is returned when a note repeats the first field of an
// earlier note of the same note type.
var ErrDuplicate = errors.New("cannot create note because it is a duplicate")

type packageDeck struct {
	id   int64
	name string
}

type packageModel struct {
	id       int64
	template Template
}

type packageNote struct {
	id     int64
	deck   *packageDeck
	model  *packageModel
	values []string
	tags   []string
}

// PackageWriter collects decks, note types, notes and media in memory and
// writes them as an Anki package (.apkg). It offers the same operations as
// Client so an offline export can replace a live Anki.
type PackageWriter struct {
	mu     sync.Mutex
	nextID int64
	decks  map[string]*packageDeck
	models map[string]*packageModel
	notes  []packageNote
	seen   map[string]bool
	media  map[string][]byte
}

// NewPackageWriter creates an empty package.
func NewPackageWriter() *PackageWriter {
	return &PackageWriter{
		nextID: time.Now().UnixMilli(),
		decks:  make(map[string]*packageDeck),
		models: make(map[string]*packageModel),
		seen:   make(map[string]bool),
		media:  make(map[string][]byte),
	}
}

func (w *PackageWriter) id() int64 {
	w.nextID++
	return w.nextID
}

// EnsureDeck adds the deck unless it already exists.
func (w *PackageWriter) EnsureDeck(_ context.Context, name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.decks[name]; !ok {
		w.decks[name] = &packageDeck{id: w.id(), name: name}
	}
	return nil
}

// EnsureTemplate adds the note type unless one with the same name exists.
func (w *PackageWriter) EnsureTemplate(_ context.Context, t Template) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.models[t.Name]; !ok {
		w.models[t.Name] = &packageModel{id: w.id(), template: t}
	}
	return nil
}

// StoreMedia adds a media file, replacing one of the same name.
func (w *PackageWriter) StoreMedia(_ context.Context, filename string, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.media[filename] = append([]byte(nil), data...)
	return nil
}

// SubmitNote adds note to the package and returns its id.
func (w *PackageWriter) SubmitNote(_ context.Context, note Note) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	deck, ok := w.decks[note.DeckName]
	if !ok {
		return 0, fmt.Errorf("deck was not found: %s", note.DeckName)
	}
	model, ok := w.models[note.ModelName]
	if !ok {
		return 0, fmt.Errorf("model was not found: %s", note.ModelName)
	}

	values := lo.Map(model.template.Fields, func(name string, _ int) string {
		return note.Fields[name]
	})
	if len(values) == 0 || values[0] == "" {
		return 0, fmt.Errorf("cannot create note because it is empty")
	}

	key := note.ModelName + "\x1f" + values[0]
	if w.seen[key] {
		return 0, ErrDuplicate
	}
	w.seen[key] = true

	n := packageNote{id: w.id(), deck: deck, model: model, values: values, tags: note.Tags}
	w.notes = append(w.notes, n)
	return n.id, nil
}

// Len returns the number of collected notes.
func (w *PackageWriter) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.notes)
}

// Write creates the .apkg file at outputPath.
func (w *PackageWriter) Write(outputPath string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	tempDir, err := os.MkdirTemp("", "ankivn_export_*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	if err := w.writeMedia(tempDir); err != nil {
		return fmt.Errorf("failed to write media files: %w", err)
	}

	if err := w.createDatabase(filepath.Join(tempDir, "collection.anki2")); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	if err := createZipPackage(tempDir, outputPath); err != nil {
		return fmt.Errorf("failed to create zip package: %w", err)
	}
	return nil
}

// writeMedia stores media under numeric names plus the "media" index that
// maps them back to their filenames.
func (w *PackageWriter) writeMedia(dir string) error {
	names := lo.Keys(w.media)
	slices.Sort(names)

	mapping := make(map[string]string, len(names))
	for i, name := range names {
		num := strconv.Itoa(i)
		if err := os.WriteFile(filepath.Join(dir, num), w.media[name], 0644); err != nil {
			return err
		}
		mapping[num] = name
	}

	data, err := json.Marshal(mapping)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "media"), data, 0644)
}

func (w *PackageWriter) createDatabase(dbPath string) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, query := range schema {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}

	if err := w.insertCollection(db); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}

	if err := w.insertNotesAndCards(db); err != nil {
		return fmt.Errorf("failed to insert notes and cards: %w", err)
	}
	return nil
}

func (w *PackageWriter) insertCollection(db *sql.DB) error {
	now := time.Now().Unix()

	decks := map[string]any{"1": deckJSON(1, "Default", now)}
	for _, d := range w.decks {
		decks[strconv.FormatInt(d.id, 10)] = deckJSON(d.id, d.name, now)
	}

	models := map[string]any{}
	var curModel string
	for _, m := range w.models {
		curModel = strconv.FormatInt(m.id, 10)
		models[curModel] = modelJSON(m, now)
	}

	conf := map[string]any{
		"nextPos":       1,
		"estTimes":      true,
		"activeDecks":   []int64{1},
		"sortType":      "noteFld",
		"sortBackwards": false,
		"addToCur":      true,
		"curDeck":       1,
		"newSpread":     0,
		"dueCounts":     true,
		"collapseTime":  1200,
		"timeLim":       0,
		"schedVer":      1,
		"curModel":      curModel,
		"dayLearnFirst": false,
	}

	dconf := map[string]any{
		"1": map[string]any{
			"id":   1,
			"name": "Default",
			"dyn":  0,
			"new": map[string]any{
				"delays":        []int{1, 10},
				"ints":          []int{1, 4, 7},
				"initialFactor": 2500,
				"perDay":        20,
				"order":         1,
				"bury":          true,
				"separate":      true,
			},
			"lapse": map[string]any{
				"delays":      []int{10},
				"mult":        0,
				"minInt":      1,
				"leechFails":  8,
				"leechAction": 0,
			},
			"rev": map[string]any{
				"perDay":   100,
				"ease4":    1.3,
				"fuzz":     0.05,
				"maxIvl":   36500,
				"ivlFct":   1,
				"bury":     true,
				"minSpace": 1,
			},
			"timer":    0,
			"maxTaken": 60,
			"usn":      0,
			"mod":      now,
			"autoplay": true,
			"replayq":  true,
		},
	}

	encoded := make([]string, 0, 4)
	for _, v := range []any{conf, models, decks, dconf} {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		encoded = append(encoded, string(data))
	}

	_, err := db.Exec(`INSERT INTO col VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		1,        // id
		now,      // crt
		now*1000, // mod
		now*1000, // scm
		11,       // ver
		0,        // dty
		0,        // usn
		0,        // ls
		encoded[0],
		encoded[1],
		encoded[2],
		encoded[3],
		"{}", // tags
	)
	return err
}

func deckJSON(id int64, name string, now int64) map[string]any {
	return map[string]any{
		"id":               id,
		"name":             name,
		"mod":              now,
		"desc":             "",
		"collapsed":        false,
		"dyn":              0,
		"conf":             1,
		"usn":              0,
		"newToday":         []int{0, 0},
		"revToday":         []int{0, 0},
		"lrnToday":         []int{0, 0},
		"timeToday":        []int{0, 0},
		"browserCollapsed": false,
		"extendNew":        10,
		"extendRev":        50,
	}
}

func modelJSON(m *packageModel, now int64) map[string]any {
	t := m.template

	flds := lo.Map(t.Fields, func(name string, ord int) map[string]any {
		return map[string]any{
			"name":   name,
			"ord":    ord,
			"sticky": false,
			"rtl":    false,
			"font":   "Arial",
			"size":   20,
			"media":  []string{},
		}
	})

	tmpls := lo.Map(t.Cards, func(c CardTemplate, ord int) map[string]any {
		return map[string]any{
			"name":  c.Name,
			"ord":   ord,
			"qfmt":  c.Front,
			"afmt":  c.Back,
			"did":   nil,
			"bqfmt": "",
			"bafmt": "",
		}
	})

	req := lo.Map(t.Cards, func(_ CardTemplate, ord int) []any {
		return []any{ord, "any", []int{0}}
	})

	return map[string]any{
		"id":        m.id,
		"name":      t.Name,
		"type":      0,
		"mod":       now,
		"usn":       -1,
		"sortf":     0,
		"did":       1,
		"req":       req,
		"vers":      []int{},
		"tags":      []string{},
		"latexPre":  "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n\\usepackage[utf8]{inputenc}\n\\usepackage{amssymb,amsmath}\n\\pagestyle{empty}\n\\setlength{\\parindent}{0in}\n\\begin{document}",
		"latexPost": "\\end{document}",
		"flds":      flds,
		"tmpls":     tmpls,
		"css":       t.CSS,
	}
}

func (w *PackageWriter) insertNotesAndCards(db *sql.DB) error {
	now := time.Now().Unix()
	due := 0

	for _, n := range w.notes {
		_, err := db.Exec(`INSERT INTO notes VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			n.id,                              // id
			fmt.Sprintf("avn_%d", n.id),       // guid
			n.model.id,                        // mid
			now,                               // mod
			-1,                                // usn
			" "+strings.Join(n.tags, " ")+" ", // tags
			strings.Join(n.values, "\x1f"),    // flds
			n.values[0],                       // sfld
			fieldChecksum(n.values[0]),        // csum
			0,                                 // flags
			"",                                // data
		)
		if err != nil {
			return fmt.Errorf("failed to insert note: %w", err)
		}

		for ord := range n.model.template.Cards {
			due++
			_, err := db.Exec(`INSERT INTO cards VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				n.id*10+int64(ord), // id
				n.id,               // nid
				n.deck.id,          // did
				ord,                // ord
				now,                // mod
				-1,                 // usn
				0,                  // type (new)
				0,                  // queue (new)
				due,                // due (position for new cards)
				0,                  // ivl
				0,                  // factor
				0,                  // reps
				0,                  // lapses
				0,                  // left
				0,                  // odue
				0,                  // odid
				0,                  // flags
				"",                 // data
			)
			if err != nil {
				return fmt.Errorf("failed to insert card: %w", err)
			}
		}
	}
	return nil
}

// fieldChecksum is Anki's duplicate check value: the first 8 hex digits of
// the SHA1 of the first field.
func fieldChecksum(field string) int64 {
	sum := sha1.Sum([]byte(field))
	return int64(binary.BigEndian.Uint32(sum[:4]))
}

func createZipPackage(dir, outputPath string) error {
	zipFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer zipFile.Close()

	archive := zip.NewWriter(zipFile)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := addZipEntry(archive, dir, entry.Name()); err != nil {
			return err
		}
	}
	return archive.Close()
}

func addZipEntry(archive *zip.Writer, dir, name string) error {
	writer, err := archive.Create(name)
	if err != nil {
		return err
	}

	file, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(writer, file)
	return err
}
