package lesson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrNotFound is returned when a lesson id is not in the catalog.
	ErrNotFound = errors.New("lesson not found")
	// ErrEmptyCatalog is returned when a catalog holds no lessons.
	ErrEmptyCatalog = errors.New("no lessons found")
)

// LanguageInfo summarizes the lessons available for a language.
type LanguageInfo struct {
	ID          string
	LessonCount int
}

// Catalog holds lessons loaded from disk, ordered per language.
type Catalog struct {
	lessons map[string]*Lesson
	byLang  map[string][]*Lesson
}

// NewCatalog builds a catalog from the given lessons. Duplicate ids keep the last lesson.
func NewCatalog(lessons ...*Lesson) *Catalog {
	c := &Catalog{
		lessons: make(map[string]*Lesson, len(lessons)),
		byLang:  map[string][]*Lesson{},
	}
	for _, l := range lessons {
		c.add(l)
	}
	c.sortLanguages()
	return c
}

// LoadCatalog reads every .json and .toml lesson file below dir.
func LoadCatalog(dir string) (*Catalog, error) {
	c, err := LoadCatalogFS(os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to load lessons from %s: %w", dir, err)
	}
	return c, nil
}

// LoadCatalogFS reads every .json and .toml lesson file in fsys.
func LoadCatalogFS(fsys fs.FS) (*Catalog, error) {
	var lessons []*Lesson
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isLessonFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		l, err := decodeLesson(path, data)
		if err != nil {
			return err
		}
		lessons = append(lessons, l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewCatalog(lessons...), nil
}

func isLessonFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".json" || ext == ".toml"
}

// LoadFile decodes a single JSON or TOML lesson file.
func LoadFile(path string) (*Lesson, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return decodeLesson(path, data)
}

func decodeLesson(path string, data []byte) (*Lesson, error) {
	var l Lesson
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &l); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &l); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	if err := l.validate(); err != nil {
		return nil, fmt.Errorf("invalid lesson %s: %w", path, err)
	}
	l.Code = NormalizeText(l.Code)
	for i, w := range l.Exclude {
		l.Exclude[i] = norm.NFC.String(w)
	}
	return &l, nil
}

// NormalizeText converts CRLF and lone CR line endings to LF and applies NFC so that
// composed characters compare equal to single typed runes.
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return norm.NFC.String(s)
}

func (c *Catalog) add(l *Lesson) {
	if prev, ok := c.lessons[l.ID]; ok {
		list := c.byLang[prev.Language]
		for i, item := range list {
			if item == prev {
				c.byLang[prev.Language] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
	}
	c.lessons[l.ID] = l
	c.byLang[l.Language] = append(c.byLang[l.Language], l)
}

func (c *Catalog) sortLanguages() {
	for lang := range c.byLang {
		list := c.byLang[lang]
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Order == list[j].Order {
				return list[i].ID < list[j].ID
			}
			return list[i].Order < list[j].Order
		})
	}
}

// Count returns the number of lessons.
func (c *Catalog) Count() int {
	return len(c.lessons)
}

// Get returns a lesson by id.
func (c *Catalog) Get(id string) (*Lesson, error) {
	l, ok := c.lessons[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return l, nil
}

// ByLanguage returns the lessons of a language in order.
func (c *Catalog) ByLanguage(lang string) []*Lesson {
	return append([]*Lesson(nil), c.byLang[lang]...)
}

// All returns every lesson sorted by language, then order.
func (c *Catalog) All() []*Lesson {
	langs := make([]string, 0, len(c.byLang))
	for lang := range c.byLang {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	out := make([]*Lesson, 0, len(c.lessons))
	for _, lang := range langs {
		out = append(out, c.byLang[lang]...)
	}
	return out
}

// First returns the first lesson of All, optionally restricted to a language.
func (c *Catalog) First(lang string) (*Lesson, error) {
	list := c.All()
	if lang != "" {
		list = c.byLang[lang]
	}
	if len(list) == 0 {
		return nil, ErrEmptyCatalog
	}
	return list[0], nil
}

// Next returns the lesson following id within its language, wrapping to the first one.
func (c *Catalog) Next(id string) (*Lesson, error) {
	cur, err := c.Get(id)
	if err != nil {
		return nil, err
	}
	list := c.byLang[cur.Language]
	for i, l := range list {
		if l.ID == id {
			return list[(i+1)%len(list)], nil
		}
	}
	return cur, nil
}

// Languages lists languages with lesson counts, most lessons first.
func (c *Catalog) Languages() []LanguageInfo {
	out := make([]LanguageInfo, 0, len(c.byLang))
	for lang, list := range c.byLang {
		if len(list) == 0 {
			continue
		}
		out = append(out, LanguageInfo{ID: lang, LessonCount: len(list)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LessonCount == out[j].LessonCount {
			return out[i].ID < out[j].ID
		}
		return out[i].LessonCount > out[j].LessonCount
	})
	return out
}
