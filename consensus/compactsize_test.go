package consensus

import (
	"encoding/hex"
	"testing"
)

func TestCompactSizeEncodeDecode(t *testing.T) {
	cases := []struct {
		name string
		val  uint64
		hex  string
	}{
		{"zero", 0, "00"},
		{"max_u8_minimal", 0xfc, "fc"},
		{"u16_boundary", 0xfd, "fdfd00"},
		{"u16_max", 0xffff, "fdffff"},
		{"u32_boundary", 0x1_0000, "fe00000100"},
		{"u32_mid", 0x12345678, "fe78563412"},
		{"u32_max", 0xffff_ffff, "feffffffff"},
		{"u64_boundary", 0x1_0000_0000, "ff0000000001000000"},
		{"u64_high", 0xffff_ffff_ffff_ffff, "ffffffffffffffffff"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			enc := CompactSize(tc.val).Encode()
			if hex.EncodeToString(enc) != tc.hex {
				t.Fatalf("encode mismatch: got %x want %s", enc, tc.hex)
			}
			if got := CompactSize(tc.val).EncodedLen(); got != len(enc) {
				t.Fatalf("EncodedLen=%d, encoding is %d bytes", got, len(enc))
			}
			if got := AppendCompactSize([]byte{0xaa}, tc.val); hex.EncodeToString(got) != "aa"+tc.hex {
				t.Fatalf("append mismatch: got %x", got)
			}

			dec, n, err := DecodeCompactSize(append(enc, 0x99))
			if err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if n != len(enc) {
				t.Fatalf("decode consumed %d bytes, want %d", n, len(enc))
			}
			if uint64(dec) != tc.val {
				t.Fatalf("decode value mismatch: got %d want %d", dec, tc.val)
			}
		})
	}
}

func TestCompactSizeRejectsNonMinimal(t *testing.T) {
	for _, h := range []string{
		"fd0000",
		"fdfc00",
		"feffff0000",
		"fe00000000",
		"ffffffffff00000000",
		"ff0000000000000000",
	} {
		b, _ := hex.DecodeString(h)
		_, _, err := DecodeCompactSize(b)
		if got := mustTxErrCode(t, err); got != TX_ERR_NONCANONICAL_SIZE {
			t.Fatalf("%s: code=%s, want %s", h, got, TX_ERR_NONCANONICAL_SIZE)
		}
	}
}

func TestCompactSizeTruncated(t *testing.T) {
	for _, h := range []string{"", "fd", "fdff", "fe000001", "ff00000000000000"} {
		b, _ := hex.DecodeString(h)
		_, _, err := DecodeCompactSize(b)
		if got := mustTxErrCode(t, err); got != TX_ERR_TRUNCATED_INPUT {
			t.Fatalf("%q: code=%s, want %s", h, got, TX_ERR_TRUNCATED_INPUT)
		}
	}
}

func TestReadCompactSizeLeavesOffsetOnError(t *testing.T) {
	b := []byte{0x01, 0xfd, 0x01}
	off := 1
	if _, _, err := readCompactSize(b, &off); err == nil {
		t.Fatalf("expected error")
	}
	if off != 1 {
		t.Fatalf("off=%d after failed read, want 1", off)
	}
}

func TestCompactSizeRoundTripSweep(t *testing.T) {
	for shift := 0; shift < 64; shift++ {
		for _, delta := range []int64{-1, 0, 1} {
			v := uint64(int64(uint64(1)<<shift) + delta)
			dec, n, err := DecodeCompactSize(CompactSize(v).Encode())
			if err != nil {
				t.Fatalf("v=%d: %v", v, err)
			}
			if uint64(dec) != v || n != CompactSize(v).EncodedLen() {
				t.Fatalf("v=%d: got %d (%d bytes)", v, dec, n)
			}
		}
	}
}
