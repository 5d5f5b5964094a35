package actor

import "github.com/go-gl/mathgl/mgl64"

// ShapeType represents the collision shape of a static body
type ShapeType int

const (
	ShapeTypeCircle ShapeType = iota
	ShapeTypeRectangle
)

// Obstacle is implemented by every static body
type Obstacle interface {
	ShapeType() ShapeType
	GetAABB() AABB
}

// StaticCircle is an immutable circular obstacle
type StaticCircle struct {
	Position mgl64.Vec2 `json:"p" msgpack:"p"`
	Radius   float64    `json:"r" msgpack:"r"`
}

func (s StaticCircle) ShapeType() ShapeType { return ShapeTypeCircle }

func (s StaticCircle) GetAABB() AABB {
	extent := mgl64.Vec2{s.Radius, s.Radius}
	return AABB{Min: s.Position.Sub(extent), Max: s.Position.Add(extent)}
}

// StaticRectangle is an immutable axis-aligned obstacle, Position is its top-left corner
type StaticRectangle struct {
	Position mgl64.Vec2 `json:"p" msgpack:"p"`
	Width    float64    `json:"w" msgpack:"w"`
	Height   float64    `json:"h" msgpack:"h"`
}

func (s StaticRectangle) ShapeType() ShapeType { return ShapeTypeRectangle }

func (s StaticRectangle) GetAABB() AABB {
	return AABB{Min: s.Position, Max: s.Position.Add(mgl64.Vec2{s.Width, s.Height})}
}
