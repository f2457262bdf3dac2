package instance_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hgs-vrptw/instance"
)

const canonicalVRPLIB = `CAPACITY : 10
EDGE_WEIGHT_TYPE : EXPLICIT
EDGE_WEIGHT_FORMAT : FULL_MATRIX
EDGE_WEIGHT_SECTION
0 5 7
5 0 3
7 3 0
DEMAND_SECTION
1 0
2 4
3 4
DEPOT_SECTION
1
-1
TIME_WINDOW_SECTION
1 0 1000
2 0 100
3 0 100
SERVICE_TIME_SECTION
1 0
2 10
3 10
EOF
`

func TestParseVRPLIB(t *testing.T) {
	inst, err := instance.Parse(bytes.NewBufferString(canonicalVRPLIB))
	require.NoError(t, err)
	require.Equal(t, 2, inst.N)
	require.Equal(t, int64(10), inst.Capacity)
	v, err := inst.Dist.At(0, 2)
	require.NoError(t, err)
	require.Equal(t, int64(7), v)
	require.Equal(t, []int64{0, 4, 4}, inst.Demand)
}

func TestParseWriteRoundTrip(t *testing.T) {
	inst, err := instance.Parse(bytes.NewBufferString(canonicalVRPLIB))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, instance.Write(&buf, inst))

	inst2, err := instance.Parse(bytes.NewBuffer(buf.Bytes()))
	require.NoError(t, err)

	require.Equal(t, inst.N, inst2.N)
	require.Equal(t, inst.Capacity, inst2.Capacity)
	require.Equal(t, inst.Demand, inst2.Demand)
	require.Equal(t, inst.Early, inst2.Early)
	require.Equal(t, inst.Late, inst2.Late)
	require.Equal(t, inst.Service, inst2.Service)
	for i := 0; i < inst.Size(); i++ {
		for j := 0; j < inst.Size(); j++ {
			a, _ := inst.Dist.At(i, j)
			b, _ := inst2.Dist.At(i, j)
			require.Equal(t, a, b)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	_, err := instance.Parse(bytes.NewBufferString("CAPACITY : 10\nEOF\n"))
	require.Error(t, err)
}
