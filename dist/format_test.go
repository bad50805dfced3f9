package dist_test

import (
	"testing"

	"github.com/katalvlaran/lvdist/dist"
	"github.com/stretchr/testify/require"
)

func TestFormats(t *testing.T) {
	fs := dist.Formats()
	require.Len(t, fs, 13)
	for _, f := range fs {
		require.True(t, f.Valid(), f.String())
		parsed, err := dist.ParseFormat(f.String())
		require.NoError(t, err)
		require.Equal(t, f, parsed)
	}

	for _, bad := range []dist.Format{{Col: dist.VC, Row: dist.MR}, {Col: dist.MC, Row: dist.MC}, {Col: dist.MD, Row: dist.MD}} {
		require.False(t, bad.Valid(), bad.String())
	}
	_, err := dist.ParseFormat("[VC,MR]")
	require.ErrorIs(t, err, dist.ErrInvalidFormat)
	require.ErrorIs(t, err, dist.ErrPrecondition)

	f, err := dist.ParseFormat("[ mc , star ]")
	require.NoError(t, err)
	require.Equal(t, dist.MCStar, f)
	require.Equal(t, dist.StarMC, dist.MCStar.Transposed())
	require.Equal(t, "[*,*]", dist.StarStar.String())
}

// TestSupportedPairs counts the implemented conversions: everything except
// the 42 pairs that move data into or out of a diagonal format without
// going through [*,*].
func TestSupportedPairs(t *testing.T) {
	supported := 0
	for _, dst := range dist.Formats() {
		for _, src := range dist.Formats() {
			if dist.Supported(dst, src) {
				supported++
			}
		}
	}
	require.Equal(t, 169-42, supported)
	require.True(t, dist.Supported(dist.MDStar, dist.StarStar))
	require.True(t, dist.Supported(dist.StarStar, dist.StarMD))
	require.True(t, dist.Supported(dist.MDStar, dist.MDStar))
	require.False(t, dist.Supported(dist.StarMD, dist.MCMR))
	require.True(t, dist.Supported(dist.VRStar, dist.MRMC))
}

// TestShiftCoversEveryIndex checks that the local lengths of all ranks add up
// to the global length for any alignment.
func TestShiftCoversEveryIndex(t *testing.T) {
	for stride := 1; stride <= 6; stride++ {
		for align := 0; align < stride; align++ {
			for n := 0; n <= 13; n++ {
				total := 0
				for rank := 0; rank < stride; rank++ {
					shift := dist.Shift(rank, align, stride)
					require.Less(t, shift, stride)
					require.Equal(t, rank, (shift+align)%stride)
					total += dist.LocalLength(n, shift, stride)
				}
				require.Equal(t, n, total, "n=%d stride=%d align=%d", n, stride, align)
			}
		}
	}
	require.Equal(t, 0, dist.LocalLength(2, 2, 3))
	require.Equal(t, 2, dist.LocalLength(5, 1, 3))
}
