package unit

import (
	"encoding/binary"
	"math"
	"math/bits"
	"net/netip"
	"strings"

	"github.com/pkg/errors"
)

// Addr is the IP address axis. The zero netip.Addr stands for the position
// right after the last address, so a half-open range can cover
// 255.255.255.255 or ffff:...:ffff. IPv4 addresses sort before IPv6.
type Addr struct{}

var _ Unit[netip.Addr] = Addr{}

// End is the formatted and parsed form of the zero netip.Addr.
const End = "end"

func (r Addr) Compare(a, b netip.Addr) int {
	switch {
	case !a.IsValid() && !b.IsValid():
		return 0
	case !a.IsValid():
		return 1
	case !b.IsValid():
		return -1
	}
	return a.Compare(b)
}

func (r Addr) Earlier(a, b netip.Addr) netip.Addr { return earlier[netip.Addr](r, a, b) }
func (r Addr) Later(a, b netip.Addr) netip.Addr   { return later[netip.Addr](r, a, b) }

// ToNumber returns the IPv4 address as a number, or the low 64 bits of an
// IPv6 address.
func (r Addr) ToNumber(v netip.Addr) float64 {
	switch {
	case !v.IsValid():
		return math.Inf(1)
	case v.Is4():
		b := v.As4()
		return float64(binary.BigEndian.Uint32(b[:]))
	}
	b := v.As16()
	return float64(binary.BigEndian.Uint64(b[8:]))
}

// FromNumber returns an IPv4 address when n fits in 32 bits and an IPv6
// address in ::/64 otherwise.
func (r Addr) FromNumber(n float64) netip.Addr {
	switch {
	case n < 0 || math.IsNaN(n):
		return netip.IPv4Unspecified()
	case n <= math.MaxUint32:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(n))
		return netip.AddrFrom4(b)
	case n >= math.MaxUint64:
		return netip.Addr{}
	}
	var b [16]byte
	binary.BigEndian.PutUint64(b[8:], uint64(n))
	return netip.AddrFrom16(b)
}

// Change moves v by n addresses within its family. Moving past the last
// address yields the end position, moving before the first address clamps
// to it.
func (r Addr) Change(v netip.Addr, n float64) netip.Addr {
	if !v.IsValid() || n == 0 {
		return v
	}
	step := uint64(math.Abs(n))
	if v.Is4() {
		b := v.As4()
		cur := uint64(binary.BigEndian.Uint32(b[:]))
		switch {
		case n > 0 && (step > math.MaxUint32 || cur+step > math.MaxUint32):
			return netip.Addr{}
		case n < 0 && step > cur:
			return netip.IPv4Unspecified()
		case n > 0:
			cur += step
		default:
			cur -= step
		}
		binary.BigEndian.PutUint32(b[:], uint32(cur))
		return netip.AddrFrom4(b)
	}

	b := v.As16()
	hi := binary.BigEndian.Uint64(b[:8])
	lo := binary.BigEndian.Uint64(b[8:])
	var carry uint64
	if n > 0 {
		lo, carry = bits.Add64(lo, step, 0)
		hi, carry = bits.Add64(hi, 0, carry)
		if carry != 0 {
			return netip.Addr{}
		}
	} else {
		lo, carry = bits.Sub64(lo, step, 0)
		hi, carry = bits.Sub64(hi, 0, carry)
		if carry != 0 {
			return netip.IPv6Unspecified()
		}
	}
	binary.BigEndian.PutUint64(b[:8], hi)
	binary.BigEndian.PutUint64(b[8:], lo)
	return netip.AddrFrom16(b).WithZone(v.Zone())
}

func (r Addr) Parse(s string) (netip.Addr, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, End) {
		return netip.Addr{}, nil
	}
	a, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, errors.Wrapf(err, "invalid address %q", s)
	}
	return a, nil
}

func (r Addr) Format(v netip.Addr) string {
	if !v.IsValid() {
		return End
	}
	return v.String()
}
