package binary

import "testing"

func TestLookup3Empty(t *testing.T) {
	// With no final mix, the empty input hashes to the bare init value.
	if got := Lookup3(nil); got != 0xdeadbeef {
		t.Errorf("Lookup3(nil) = 0x%08x, want 0xdeadbeef", got)
	}
}

func TestLookup3LengthVariations(t *testing.T) {
	// Lengths 0-24 cross both the tail switch and the 12-byte main loop;
	// every length should hash differently.
	seen := make(map[uint32]int)
	for length := 0; length <= 24; length++ {
		data := make([]byte, length)
		for i := range data {
			data[i] = byte(i)
		}
		cs := Lookup3(data)
		if prev, dup := seen[cs]; dup {
			t.Errorf("length %d collides with length %d: 0x%08x", length, prev, cs)
		}
		seen[cs] = length
	}
}

func TestLookup3Deterministic(t *testing.T) {
	data := []byte("Hello World!!")
	if Lookup3(data) != Lookup3(data) {
		t.Error("Lookup3 not deterministic")
	}
}

func TestFletcher32(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  uint32
	}{
		{"empty", nil, 0},
		{"one word", []byte{0x01, 0x02}, 0x02010201},
		{"two words", []byte{0x01, 0x00, 0x02, 0x00}, 0x00040003},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fletcher32(tt.input); got != tt.want {
				t.Errorf("Fletcher32(%v) = 0x%08x, want 0x%08x", tt.input, got, tt.want)
			}
		})
	}
}

func TestFletcher32OddLength(t *testing.T) {
	// A trailing odd byte is treated as a zero-padded 16-bit word.
	odd := []byte{0x01, 0x02, 0x03}
	even := []byte{0x01, 0x02, 0x03, 0x00}
	if Fletcher32(odd) != Fletcher32(even) {
		t.Errorf("odd-length input not zero-padded: odd=0x%08x even=0x%08x",
			Fletcher32(odd), Fletcher32(even))
	}
}
