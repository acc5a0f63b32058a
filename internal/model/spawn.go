package model

// Rect прямоугольник на плоскости X/Z, стороны параллельны осям.
type Rect struct {
	MinX float64 `yaml:"min_x"`
	MinZ float64 `yaml:"min_z"`
	MaxX float64 `yaml:"max_x"`
	MaxZ float64 `yaml:"max_z"`
}

// Width возвращает размер по X.
func (r Rect) Width() float64 {
	return r.MaxX - r.MinX
}

// Depth возвращает размер по Z.
func (r Rect) Depth() float64 {
	return r.MaxZ - r.MinZ
}

// Area возвращает Width*Depth. Для вырожденных прямоугольников ноль или отрицательное значение.
func (r Rect) Area() float64 {
	return r.Width() * r.Depth()
}

// Contains проверяет, лежит ли (x, z) внутри r: min включительно, max исключительно.
func (r Rect) Contains(x, z float64) bool {
	return x >= r.MinX && x < r.MaxX && z >= r.MinZ && z < r.MaxZ
}

// SpawnPointID дескриптор точки появления, заранее размещённой в мире хоста.
type SpawnPointID int32

// MarkerID дескриптор маркера в мире (иконка и текст над картой).
type MarkerID int32

// DropID дескриптор трофея, лежащего в мире.
type DropID int32
