package tile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrUnknownServer = errors.New("tile: unknown server")

// Server describes a remote tile source. URLTemplate carries the literal placeholders %z, %x and %y.
type Server struct {
	Name        string
	URLTemplate string
	MinZoom     int
	MaxZoom     int
	Ext         string
	Attribution string
	// Ordinal is the position in the registry; it is folded into Key.ID.
	Ordinal int
}

// URL substitutes the tile indices into the template.
func (s Server) URL(z, x, y int) string {
	return strings.NewReplacer(
		"%z", strconv.Itoa(z),
		"%x", strconv.Itoa(x),
		"%y", strconv.Itoa(y),
	).Replace(s.URLTemplate)
}

func (s Server) ClampZoom(z int) int {
	return max(s.MinZoom, min(s.MaxZoom, z))
}

func (s Server) String() string {
	return s.Name
}

// Registry is an immutable, ordered set of servers with a fallback default.
type Registry struct {
	servers []Server
	byName  map[string]int
	def     int
}

// NewRegistry builds a registry. The first server is the fallback returned by Lookup.
func NewRegistry(servers ...Server) (*Registry, error) {
	if len(servers) == 0 {
		return nil, errors.New("tile: empty server registry")
	}
	if len(servers) > 99 {
		return nil, fmt.Errorf("tile: too many servers: %d", len(servers))
	}
	r := &Registry{
		servers: make([]Server, len(servers)),
		byName:  make(map[string]int, len(servers)),
	}
	for i, s := range servers {
		if _, dup := r.byName[s.Name]; dup {
			return nil, fmt.Errorf("tile: duplicate server %q", s.Name)
		}
		if s.Ext == "" {
			s.Ext = "png"
		}
		s.Ordinal = i
		r.servers[i] = s
		r.byName[s.Name] = i
	}
	return r, nil
}

// Get returns the named server or ErrUnknownServer.
func (r *Registry) Get(name string) (Server, error) {
	i, ok := r.byName[name]
	if !ok {
		return Server{}, fmt.Errorf("%w: %q", ErrUnknownServer, name)
	}
	return r.servers[i], nil
}

// Lookup returns the named server, or the default server if the name is unknown.
func (r *Registry) Lookup(name string) Server {
	if s, err := r.Get(name); err == nil {
		return s
	}
	return r.servers[r.def]
}

func (r *Registry) Default() Server {
	return r.servers[r.def]
}

func (r *Registry) Servers() []Server {
	return append([]Server(nil), r.servers...)
}

// DefaultRegistry returns the built-in server set with OpenStreetMap as the default.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		Server{
			Name:        "osm",
			URLTemplate: "https://tile.openstreetmap.org/%z/%x/%y.png",
			MinZoom:     0,
			MaxZoom:     19,
			Ext:         "png",
			Attribution: "© OpenStreetMap contributors",
		},
		Server{
			Name:        "opentopomap",
			URLTemplate: "https://tile.opentopomap.org/%z/%x/%y.png",
			MinZoom:     0,
			MaxZoom:     17,
			Ext:         "png",
			Attribution: "© OpenTopoMap (CC-BY-SA), © OpenStreetMap contributors",
		},
		Server{
			Name:        "esri-imagery",
			URLTemplate: "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/%z/%y/%x",
			MinZoom:     0,
			MaxZoom:     19,
			Ext:         "jpg",
			Attribution: "© Esri, Maxar, Earthstar Geographics",
		},
		Server{
			Name:        "carto-light",
			URLTemplate: "https://basemaps.cartocdn.com/light_all/%z/%x/%y.png",
			MinZoom:     0,
			MaxZoom:     20,
			Ext:         "png",
			Attribution: "© OpenStreetMap contributors, © CARTO",
		},
	)
	if err != nil {
		panic(err)
	}
	return r
}
