package renamer

const nameAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Produces short names that are valid identifiers, never reserved, and never
// equal to anything in the exclusion set. Names come out shortest first and
// in alphabet order within a length, so the sequence only depends on the
// exclusion set and the order of calls.
type NameGenerator struct {
	used  map[string]bool
	index int
}

func NewNameGenerator(used map[string]bool) *NameGenerator {
	g := &NameGenerator{used: ComputeReservedNames()}
	for name := range used {
		g.used[name] = true
	}
	return g
}

// Excludes "name" from all future calls to "Next".
func (g *NameGenerator) Blacklist(name string) {
	g.used[name] = true
}

func (g *NameGenerator) Next() string {
	for {
		name := numberToName(g.index)
		g.index++
		if !g.used[name] {
			g.used[name] = true
			return name
		}
	}
}

// Bijective base-52 numbering: 0 is "a", 51 is "Z", 52 is "aa".
func numberToName(i int) string {
	var buffer []byte
	n := len(nameAlphabet)
	for {
		buffer = append(buffer, nameAlphabet[i%n])
		i = i/n - 1
		if i < 0 {
			break
		}
	}
	for l, r := 0, len(buffer)-1; l < r; l, r = l+1, r-1 {
		buffer[l], buffer[r] = buffer[r], buffer[l]
	}
	return string(buffer)
}
