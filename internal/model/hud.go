package model

import "time"

// ElementKind определяет виджет HUD, принадлежащий бойцу.
type ElementKind uint8

const (
	ElemKillStreak ElementKind = iota + 1
	ElemSpotted
	ElemAward
	ElemDeployCountdown
	ElemBigBountyPanel
	ElemBigBountyCell
	ElemOutline
)

// Ячейки строки панели крупных наград.
const (
	CellBounty = iota
	CellHeading
	CellDistance

	CellsPerRow
)

// OutlineEdges количество полноэкранных рамок (верх, право, низ, лево).
const OutlineEdges = 4

// Element адресует один виджет HUD. Row и Slot используются только для
// ElemBigBountyCell (строка, ячейка) и ElemOutline (сторона в Row).
type Element struct {
	Kind ElementKind `msgpack:"k"`
	Row  int         `msgpack:"r,omitempty"`
	Slot int         `msgpack:"s,omitempty"`
}

// BigBountyCell адресует одну ячейку панели крупных наград.
func BigBountyCell(row, cell int) Element {
	return Element{Kind: ElemBigBountyCell, Row: row, Slot: cell}
}

// Outline адресует одну из рамок.
func Outline(edge int) Element {
	return Element{Kind: ElemOutline, Row: edge}
}

// ScoreRow строка таблицы счёта.
type ScoreRow struct {
	Points     int `msgpack:"p"`
	Kills      int `msgpack:"k"`
	Assists    int `msgpack:"a"`
	Deaths     int `msgpack:"d"`
	NextBounty int `msgpack:"b"`
}

// SoundOptions параметры одного проигрывания звука.
type SoundOptions struct {
	Duration  time.Duration
	Target    PlayerID // NoPlayer = всем
	Amplitude float64
}
