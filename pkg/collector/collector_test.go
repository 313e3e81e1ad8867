package collector

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/romi.go/pkg/tasks/user"
	"github.com/robotalks/romi.go/pkg/transport"
)

func TestParse(t *testing.T) {
	in := strings.Join([]string{
		user.CSVHeader,
		"0.020000,1.5,0.020000,2.5",
		"0.040000,1.75,,# partial",
		"bad,1,2,3",
		"# only a comment",
		"0.060000,2,,",
		",,0.060000,3",
		"0.080000,2.25,0.080000,3.5 # trailing",
	}, "\n")
	b, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []string{"Time_L (s)", "Data_L", "Time_R (s)", "Data_R"}, b.Header)
	require.Len(t, b.Rows, 5)
	require.Equal(t, 1, b.Skipped)

	require.True(t, b.Rows[0].HasLeft)
	require.True(t, b.Rows[0].HasRight)
	require.Equal(t, Point{0.02, 2.5}, b.Rows[0].Right)

	require.True(t, b.Rows[1].HasLeft)
	require.False(t, b.Rows[1].HasRight)
	require.Equal(t, Point{0.04, 1.75}, b.Rows[1].Left)
	require.True(t, b.Rows[2].HasLeft)
	require.False(t, b.Rows[3].HasLeft)
	require.True(t, b.Rows[3].HasRight)
	require.Equal(t, Point{0.08, 3.5}, b.Rows[4].Right)
}

func TestParseNoHeader(t *testing.T) {
	_, err := Parse(strings.NewReader("a,b\n1,2\n"))
	require.Equal(t, ErrNoHeader, err)
}

func TestExtractor(t *testing.T) {
	var e Extractor
	lines := []string{
		"Collecting...\r\n",
		user.BeginData + "\r\n",
		user.CSVHeader + "\r\n",
		"0.020000,1,0.020000,2\r\n",
		"0.040000,3,,\r\n",
	}
	for _, l := range lines {
		b, err := e.Feed(l)
		require.NoError(t, err)
		require.Nil(t, b)
	}
	require.True(t, e.Inside())
	b, err := e.Feed(user.EndData + "\r\n")
	require.NoError(t, err)
	require.NotNil(t, b)
	require.False(t, e.Inside())
	require.Len(t, b.Rows, 2)
	require.Equal(t, Point{0.04, 3}, b.Rows[1].Left)

	b, err = e.Feed("after\r\n")
	require.NoError(t, err)
	require.Nil(t, b)
}

func TestSave(t *testing.T) {
	b := &Block{
		Header: strings.Split(user.CSVHeader, ","),
		Rows: []Row{
			{Left: Point{0.02, 1}, Right: Point{0.02, 2}, HasLeft: true, HasRight: true},
			{Right: Point{0.04, 2.5}, HasRight: true},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, b.Write(&buf))
	require.Equal(t, user.CSVHeader+"\n0.02,1,0.02,2\n,,0.04,2.5\n", buf.String())

	dir := filepath.Join(t.TempDir(), DefaultDir)
	now := time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)
	path, err := Save(dir, b, now)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "2024-03-01_10-20-30.csv"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, buf.String(), string(data))

	back, err := Parse(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, b.Rows, back.Rows)
}

func TestSession(t *testing.T) {
	buf := transport.NewBuffer()
	var out bytes.Buffer
	s := NewSession(buf, &out)
	var blocks []*Block
	s.OnBlock = func(b *Block, err error) {
		require.NoError(t, err)
		blocks = append(blocks, b)
	}

	s.SendValue('k', " 2.5 ")
	require.Equal(t, "k2.5\r", buf.TakeOutput())

	buf.Feed("Data collection complete...\r\n" + user.BeginData + "\r\n" + user.CSVHeader + "\r\n0.02")
	s.Poll()
	require.Equal(t, "Data collection complete...\n", out.String())
	require.Empty(t, blocks)

	buf.Feed("0000,1,,\r\n" + user.EndData + "\r\nready\r\n")
	s.Poll()
	require.Len(t, blocks, 1)
	require.Len(t, blocks[0].Rows, 1)
	require.Equal(t, Point{0.02, 1}, blocks[0].Rows[0].Left)
	require.Equal(t, "Data collection complete...\nready\n", out.String())
}
