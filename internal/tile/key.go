package tile

import "fmt"

// Key identifies a cached tile bitmap.
type Key struct {
	Server Server
	Z      int
	X, Y   int
}

func NewKey(s Server, z, x, y int) Key {
	return Key{Server: s, Z: z, X: x, Y: y}
}

// ID returns ((z*M + x)*M + y)*100 + ordinal with M = 2^z.
func (k Key) ID() uint64 {
	m := uint64(Count(k.Z))
	return ((uint64(k.Z)*m+uint64(k.X))*m+uint64(k.Y))*100 + uint64(k.Server.Ordinal)
}

func (k Key) Valid() bool {
	return InRange(k.Z, k.X, k.Y)
}

func (k Key) Ref() Ref {
	return NewRef(k.Z, k.X, k.Y)
}

func (k Key) URL() string {
	return k.Server.URL(k.Z, k.X, k.Y)
}

// Parent returns the key of the tile one zoom level up that covers k.
func (k Key) Parent() (Key, bool) {
	if k.Z == 0 {
		return Key{}, false
	}
	return Key{Server: k.Server, Z: k.Z - 1, X: k.X / 2, Y: k.Y / 2}, true
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%d/%d/%d", k.Server.Name, k.Z, k.X, k.Y)
}
