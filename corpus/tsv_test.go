package corpus

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "c1\ta.mp3\thello world\t2\t0\ttwenties\tmale\tus\n" +
	"c2\tb.mp3\tshe said \"hi\" twice\t1\t1\t\tfemale\t\n" +
	"c1\tc.mp3\tthird\t3\t0\ttwenties\tmale\tus\tde\tv2\n"

func TestReader_ReadAll(t *testing.T) {
	recs, err := NewReader(strings.NewReader(sample), false).ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, Record{
		ClientID: "c1", Path: "a.mp3", Sentence: "hello world", UpVotes: "2", DownVotes: "0",
		Age: "twenties", Gender: "male", Accent: "us",
	}, recs[0])
	assert.Equal(t, `she said "hi" twice`, recs[1].Sentence)
	assert.Equal(t, "", recs[1].Age)
	assert.Equal(t, []string{"de", "v2"}, recs[2].Extra)
}

func TestReader_SkipHeader(t *testing.T) {
	in := "client_id\tpath\tsentence\tup_votes\tdown_votes\tage\tgender\taccent\n" + sample
	recs, err := NewReader(strings.NewReader(in), true).ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "c1", recs[0].ClientID)
}

func TestReader_ShortRow(t *testing.T) {
	in := sample + "c3\tonly\tthree\n"
	_, err := NewReader(strings.NewReader(in), false).ReadAll(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShortRow))
	assert.Contains(t, err.Error(), "line 4")
}

func TestReader_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewReader(strings.NewReader(sample), false).ReadAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriter_RoundTrip(t *testing.T) {
	recs, err := NewReader(strings.NewReader(sample), false).ReadAll(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteAll(recs))
	require.NoError(t, w.Flush())
	assert.Equal(t, 3, w.Rows())

	back, err := NewReader(&buf, false).ReadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, recs, back)
}

func TestWriter_RequotesLeadingSpace(t *testing.T) {
	in := "c1\ta.mp3\t hi there\t1\t0\t\t\t\n"
	recs, err := NewReader(strings.NewReader(in), false).ReadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, " hi there", recs[0].Sentence)

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteAll(recs))
	require.NoError(t, w.Flush())
	assert.Equal(t, "c1\ta.mp3\t\" hi there\"\t1\t0\t\t\t\n", buf.String())

	back, err := NewReader(&buf, false).ReadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, recs, back)
}

func TestWriter_PlainRowsUnquoted(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Write(Record{ClientID: "c1", Path: "a.mp3", Sentence: "hello world", UpVotes: "2", DownVotes: "0"}))
	require.NoError(t, w.Flush())
	assert.Equal(t, "c1\ta.mp3\thello world\t2\t0\t\t\t\n", buf.String())
}
