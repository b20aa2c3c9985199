// Package loader builds a concert from roster and setlist files.
//
// Three files are read: the artists (house and external alike), the names
// of the house artists, and the setlist. Each may be JSON or YAML, chosen by
// extension.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/sinfonia/internal/domain/concert"
	"github.com/okian/sinfonia/internal/domain/performer"
	"github.com/okian/sinfonia/internal/domain/song"
)

// ArtistRecord is one entry of the artists file.
type ArtistRecord struct {
	Name         string   `json:"name" yaml:"name"`
	Roles        []string `json:"roles" yaml:"roles"`
	Affiliations []string `json:"affiliations" yaml:"affiliations"`
	Price        float64  `json:"price,omitempty" yaml:"price,omitempty"`
	MaxSongs     int      `json:"max_songs,omitempty" yaml:"max_songs,omitempty"`
}

// SongRecord is one entry of the setlist file.
type SongRecord struct {
	Title         string   `json:"title" yaml:"title"`
	RequiredRoles []string `json:"required_roles" yaml:"required_roles"`
}

// Paths locates the three input files.
type Paths struct {
	Artists    string
	HouseNames string
	Setlist    string
}

// Load reads the files named by p and builds a concert.
func Load(ctx context.Context, p Paths) (*concert.Concert, error) {
	var (
		artists []ArtistRecord
		house   []string
		songs   []SongRecord
	)
	if err := decodeFile(ctx, p.HouseNames, &house); err != nil {
		return nil, err
	}
	if err := decodeFile(ctx, p.Artists, &artists); err != nil {
		return nil, err
	}
	if err := decodeFile(ctx, p.Setlist, &songs); err != nil {
		return nil, err
	}
	return Build(artists, house, songs), nil
}

// Build turns records into a concert. An artist whose name is in houseNames
// becomes a house performer; every other artist is an external candidate.
// Record order is kept.
func Build(artists []ArtistRecord, houseNames []string, songs []SongRecord) *concert.Concert {
	isHouse := make(map[string]struct{}, len(houseNames))
	for _, n := range houseNames {
		isHouse[n] = struct{}{}
	}

	var (
		houses     []*performer.House
		candidates []*performer.External
	)
	for _, a := range artists {
		if _, ok := isHouse[a.Name]; ok {
			houses = append(houses, performer.NewHouse(a.Name, a.Roles, a.Affiliations))
			continue
		}
		candidates = append(candidates, performer.NewExternal(a.Name, a.Roles, a.Affiliations, a.Price, a.MaxSongs))
	}

	setlist := make([]*song.Song, 0, len(songs))
	for _, s := range songs {
		setlist = append(setlist, song.New(s.Title, s.RequiredRoles))
	}
	return concert.New(setlist, houses, candidates)
}

func decodeFile(ctx context.Context, path string, v any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer func() { _ = f.Close() }()

	if err := Decode(f, filepath.Ext(path), v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	return nil
}

// Decode reads r as JSON or YAML depending on ext (".json", ".yaml", ".yml").
func Decode(r io.Reader, ext string, v any) error {
	switch strings.ToLower(ext) {
	case ".json":
		return json.NewDecoder(r).Decode(v)
	case ".yaml", ".yml":
		return yaml.NewDecoder(r).Decode(v)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
}
