package model

// listPalette holds the colors given to new lists, in order.
var listPalette = []string{
	"#64748b", // slate
	"#2563eb", // blue
	"#d97706", // amber
	"#059669", // emerald
	"#7c3aed", // violet
	"#db2777", // pink
	"#dc2626", // red
	"#0891b2", // cyan
}

// NextListColor picks the first palette color no list of b uses yet, or
// cycles through the palette once every color is taken.
func (b *BoardConfig) NextListColor() string {
	used := make(map[string]bool, len(b.Lists))
	for _, l := range b.Lists {
		used[l.Color] = true
	}
	for _, c := range listPalette {
		if !used[c] {
			return c
		}
	}
	return listPalette[len(b.Lists)%len(listPalette)]
}
