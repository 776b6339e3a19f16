package builder

import (
	"strings"
	"testing"

	"github.com/specialistvlad/etreport/internal/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitRef(t *testing.T) {
	testCases := []struct {
		name      string
		text      string
		style     RefStyle
		ref       string
		body      int
		skip      bool
		expectErr bool
	}{
		{name: "positional", text: "100 7 disp 1", style: RefPositional, ref: "7", body: 2},
		{name: "positional skip", text: "100 *** worker started", style: RefPositional, ref: "***", body: 2, skip: true},
		{name: "marker", text: "100 tid 7 disp 1", style: RefMarker, ref: "7", body: 3},
		{name: "marker skip", text: "100 tid *** hello", style: RefMarker, ref: "***", body: 3, skip: true},
		{name: "error - marker missing", text: "100 7 disp 1", style: RefMarker, expectErr: true},
		{name: "error - reference missing", text: "100", style: RefPositional, expectErr: true},
		{name: "error - marker without id", text: "100 tid", style: RefMarker, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ref, body, skip, err := splitRef(strings.Fields(tc.text), tc.style)
			if tc.expectErr {
				require.NotNil(t, err)
				assert.ErrorIs(t, err, trace.ErrMalformedRecord)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, tc.ref, ref)
			assert.Equal(t, tc.body, body)
			assert.Equal(t, tc.skip, skip)
		})
	}
}

func TestParseRecord(t *testing.T) {
	units := Units{ClockDivisor: 1e9, TimestampDivisor: 1, StartOffset: 10}

	testCases := []struct {
		name      string
		text      string
		expected  *trace.Record
		errSubstr string
	}{
		{
			name:     "all keys",
			text:     "100 1 disp 1 st R et 1000000000 creat 20000000000",
			expected: &trace.Record{Seq: 1, End: 90, Elapsed: 1, State: "R", Creation: 10, HasCreation: true},
		},
		{
			name:     "keys in any order",
			text:     "100.5 1 et 500000000 st Z disp 3",
			expected: &trace.Record{Seq: 3, End: 90.5, Elapsed: 0.5, State: "Z"},
		},
		{
			name:     "stream metadata is ignored",
			text:     "100 1 disp 2 [in:3] st B [out 4 5] et 0",
			expected: &trace.Record{Seq: 2, End: 90, Elapsed: 0, State: "B", Streams: 2},
		},
		{name: "error - bad timestamp", text: "abc 1 disp 1 et 1", errSubstr: `invalid end timestamp "abc"`},
		{name: "error - unknown key", text: "100 1 disp 1 et 1 foo 2", errSubstr: `unknown field "foo"`},
		{name: "error - missing value", text: "100 1 disp 1 et", errSubstr: `field "et" has no value`},
		{name: "error - duplicate key", text: "100 1 disp 1 disp 2 et 1", errSubstr: `duplicate field "disp"`},
		{name: "error - missing disp", text: "100 1 et 1", errSubstr: `missing field "disp"`},
		{name: "error - missing et", text: "100 1 disp 1 st R", errSubstr: `missing field "et"`},
		{name: "error - bad disp", text: "100 1 disp x et 1", errSubstr: `invalid disp "x"`},
		{name: "error - negative et", text: "100 1 disp 1 et -4", errSubstr: `invalid et "-4"`},
		{name: "error - bad creat", text: "100 1 disp 1 et 1 creat ?", errSubstr: `invalid creat "?"`},
		{name: "error - NaN timestamp", text: "NaN 1 disp 1 et 5", errSubstr: `invalid end timestamp "NaN"`},
		{name: "error - infinite timestamp", text: "inf 1 disp 1 et 5", errSubstr: `invalid end timestamp "inf"`},
		{name: "error - NaN et", text: "100 1 disp 1 et NaN", errSubstr: `invalid et "NaN"`},
		{name: "error - infinite et", text: "100 1 disp 1 et Inf", errSubstr: `invalid et "Inf"`},
		{name: "error - NaN creat", text: "100 1 disp 1 et 1 creat nan", errSubstr: `invalid creat "nan"`},
		{name: "error - infinite creat", text: "100 1 disp 1 et 1 creat -Inf", errSubstr: `invalid creat "-Inf"`},
		{name: "error - unterminated metadata", text: "100 1 disp 1 et 1 [in 3", errSubstr: "unterminated stream metadata"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := line{fields: strings.Fields(tc.text), body: 2}
			rec, err := parseRecord(l, units)

			if tc.errSubstr != "" {
				require.NotNil(t, err)
				assert.ErrorIs(t, err, trace.ErrMalformedRecord)
				assert.Contains(t, err.Error(), tc.errSubstr)
				return
			}

			require.Nil(t, err)
			assert.Equal(t, tc.expected.Seq, rec.Seq)
			assert.Equal(t, tc.expected.State, rec.State)
			assert.InDelta(t, tc.expected.End, rec.End, 1e-9)
			assert.InDelta(t, tc.expected.Elapsed, rec.Elapsed, 1e-9)
			assert.Equal(t, tc.expected.HasCreation, rec.HasCreation)
			assert.Equal(t, tc.expected.Streams, rec.Streams)
			assert.InDelta(t, tc.expected.Creation, rec.Creation, 1e-9)
		})
	}
}

func TestParseRefStyle(t *testing.T) {
	style, err := ParseRefStyle("tid")
	require.NoError(t, err)
	assert.Equal(t, RefMarker, style)
	assert.Equal(t, "tid", style.String())

	style, err = ParseRefStyle("")
	require.NoError(t, err)
	assert.Equal(t, RefPositional, style)

	_, err = ParseRefStyle("column")
	assert.Error(t, err)
}
