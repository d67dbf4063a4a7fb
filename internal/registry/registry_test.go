package registry

import (
	"math"
	"strings"
	"testing"

	"vet-hospital-api/internal/geodesy"
	"vet-hospital-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/korean"
)

func testHeader() []string {
	header := make([]string, 29)
	for i := range header {
		header[i] = "col"
	}
	header[4] = "영업상태명"
	header[12] = "사업장명"
	header[16] = "도로명전체주소"
	header[17] = "상세영업상태명"
	header[20] = "소재지전화"
	header[21] = "좌표정보(x)"
	header[22] = "좌표정보(y)"
	header[23] = "소재지전체주소"
	return header
}

type rowSpec struct {
	status, detail, name, road, lot, phone, x, y string
}

func (r rowSpec) fields() []string {
	f := make([]string, 29)
	f[4] = r.status
	f[12] = r.name
	f[16] = r.road
	f[17] = r.detail
	f[20] = r.phone
	f[21] = r.x
	f[22] = r.y
	f[23] = r.lot
	return f
}

func validRow() rowSpec {
	return rowSpec{
		status: "영업/정상",
		detail: "정상",
		name:   "서울동물병원",
		road:   "서울특별시 종로구 창경궁로35길 19",
		lot:    "서울특별시 종로구 혜화동 1",
		phone:  "02-123-4567",
		x:      "200079.66",
		y:      "453836.10",
	}
}

func newTestNormalizer(t *testing.T) *Normalizer {
	r, err := geodesy.NewReprojector(geodesy.ModifiedCentralBelt, geodesy.KoreaBounds)
	require.NoError(t, err)
	return NewNormalizer(DefaultSchema(), nil, r)
}

func TestSplitFields(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
	}{
		{
			name:     "plain fields",
			line:     "a,b,,c",
			expected: []string{"a", "b", "", "c"},
		},
		{
			name:     "quoted comma and escaped quotes",
			line:     `1,"Seoul, Gangnam-gu ""Central"" St.",x`,
			expected: []string{"1", `Seoul, Gangnam-gu "Central" St.`, "x"},
		},
		{
			name:     "quoted last field",
			line:     `a,"b,c"`,
			expected: []string{"a", "b,c"},
		},
		{
			name:     "empty line",
			line:     "",
			expected: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitFields(tt.line))
		})
	}
}

func TestSplitLines(t *testing.T) {
	t.Run("crlf and lf", func(t *testing.T) {
		assert.Equal(t, []string{"h", "a", "b", ""}, SplitLines("h\r\na\nb\r\n"))
	})

	t.Run("newline inside quoted field", func(t *testing.T) {
		lines := SplitLines("h\n1,\"two\nlines\",3\n4")
		require.Len(t, lines, 3)
		assert.Equal(t, "1,\"two\nlines\",3", lines[1])
	})

	t.Run("stray quote inside unquoted field", func(t *testing.T) {
		lines := SplitLines("h\nab\"c,d\ne,f")
		assert.Equal(t, []string{"h", "ab\"c,d", "e,f"}, lines)
	})

	t.Run("unterminated quote ends with a full row", func(t *testing.T) {
		lines := SplitLines("a,b,c\n1,\"x,3\n4,5,6\n7,8,9")
		assert.Equal(t, []string{"a,b,c", "1,\"x,3", "4,5,6", "7,8,9"}, lines)
	})

	t.Run("unterminated quote spans a bounded number of lines", func(t *testing.T) {
		lines := SplitLines("h\n\"a\nb\nc\nd\ne\nf\ng\nh\ni\nj")
		require.Len(t, lines, 4)
		assert.Equal(t, "\"a\nb\nc\nd\ne\nf\ng\nh", lines[1])
		assert.Equal(t, []string{"i", "j"}, lines[2:])
	})
}

func TestDecode(t *testing.T) {
	text := "사업장명,주소\r\n서울동물병원,\"서울특별시, 종로구\"\r\n"
	buf, err := korean.EUCKR.NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)

	t.Run("euc-kr", func(t *testing.T) {
		lines, err := Decode(buf, "euc-kr")
		require.NoError(t, err)
		require.Len(t, lines, 3)
		assert.Equal(t, "사업장명,주소", lines[0])
		assert.Equal(t, []string{"서울동물병원", "서울특별시, 종로구"}, SplitFields(lines[1]))
	})

	t.Run("invalid byte sequence", func(t *testing.T) {
		bad := append(append([]byte{}, buf...), 'x', 0xFF, '\n')
		_, err := Decode(bad, "cp949")
		var decodeErr *DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, 3, decodeErr.Line)
	})

	t.Run("utf-8 with bom", func(t *testing.T) {
		lines, err := Decode(append([]byte{0xEF, 0xBB, 0xBF}, []byte(text)...), "utf-8")
		require.NoError(t, err)
		assert.Equal(t, "사업장명,주소", lines[0])
	})

	t.Run("legacy bytes read as utf-8", func(t *testing.T) {
		_, err := Decode(buf, "utf-8")
		var decodeErr *DecodeError
		assert.ErrorAs(t, err, &decodeErr)
	})

	t.Run("unknown encoding", func(t *testing.T) {
		_, err := Decode(buf, "shift-jis")
		var decodeErr *DecodeError
		assert.ErrorAs(t, err, &decodeErr)
	})
}

func TestSchema_Validate(t *testing.T) {
	schema := DefaultSchema()

	t.Run("matching header", func(t *testing.T) {
		assert.NoError(t, schema.Validate(testHeader()))
	})

	t.Run("epsg suffixed coordinate headers", func(t *testing.T) {
		header := testHeader()
		header[21] = "좌표정보x(EPSG5174)"
		header[22] = "좌표정보y(EPSG5174)"
		assert.NoError(t, schema.Validate(header))
	})

	t.Run("shifted columns", func(t *testing.T) {
		header := testHeader()
		header[12], header[13] = "col", "사업장명"
		err := schema.Validate(header)
		var mismatch *SchemaMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, "name", mismatch.Field)
		assert.Equal(t, 12, mismatch.Index)
	})

	t.Run("short header", func(t *testing.T) {
		var mismatch *SchemaMismatchError
		assert.ErrorAs(t, schema.Validate(testHeader()[:10]), &mismatch)
	})
}

func TestNormalizer_Normalize(t *testing.T) {
	n := newTestNormalizer(t)

	t.Run("known fixture", func(t *testing.T) {
		out := n.Normalize(1, validRow().fields())
		require.True(t, out.Accepted(), "reason %s: %v", out.Reason, out.Err)
		h := out.Hospital
		assert.Equal(t, "서울동물병원", h.Name)
		assert.Equal(t, "서울특별시 종로구 창경궁로35길 19", h.Address)
		assert.Equal(t, "02-123-4567", h.Phone)
		assert.InDelta(t, 37.585, h.Latitude, 0.002)
		assert.InDelta(t, 127.000, h.Longitude, 0.002)
		assert.Equal(t, models.CategoryGeneral, h.Category)
		assert.False(t, h.IsSpecial)
	})

	tests := []struct {
		name     string
		mutate   func(r *rowSpec)
		accepted bool
		reason   Reason
	}{
		{
			name:   "closed business",
			mutate: func(r *rowSpec) { r.status, r.detail = "폐업", "폐업" },
			reason: ReasonInactive,
		},
		{
			name:     "only detail status active",
			mutate:   func(r *rowSpec) { r.status = "휴업" },
			accepted: true,
		},
		{
			name:     "only primary status active",
			mutate:   func(r *rowSpec) { r.detail = "" },
			accepted: true,
		},
		{
			name:   "blank name",
			mutate: func(r *rowSpec) { r.name = "  " },
			reason: ReasonBlankName,
		},
		{
			name:     "lot address fallback",
			mutate:   func(r *rowSpec) { r.road = "" },
			accepted: true,
		},
		{
			name:   "no address",
			mutate: func(r *rowSpec) { r.road, r.lot = "", "" },
			reason: ReasonBlankAddress,
		},
		{
			name:   "unparseable x",
			mutate: func(r *rowSpec) { r.x = "" },
			reason: ReasonBadCoordinate,
		},
		{
			name:   "non-finite y",
			mutate: func(r *rowSpec) { r.y = "NaN" },
			reason: ReasonReprojectionDomain,
		},
		{
			name:   "outside korea",
			mutate: func(r *rowSpec) { r.y = "1400000" },
			reason: ReasonOutOfBounds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRow()
			tt.mutate(&r)
			out := n.Normalize(7, r.fields())
			assert.Equal(t, tt.accepted, out.Accepted())
			assert.Equal(t, tt.reason, out.Reason)
			assert.Equal(t, 7, out.Line)
			if out.Accepted() {
				assert.False(t, math.IsNaN(out.Hospital.Latitude))
			}
		})
	}

	t.Run("short row", func(t *testing.T) {
		out := n.Normalize(2, validRow().fields()[:20])
		assert.Equal(t, ReasonShortRow, out.Reason)
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		hospital string
		category models.Category
		special  bool
	}{
		{"bird keyword", "해피조류동물병원", models.CategorySpecial, true},
		{"exotic keyword", "강남특수동물병원", models.CategorySpecial, true},
		{"no keyword", "서울동물병원", models.CategoryGeneral, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, special := Classify(tt.hospital, DefaultSpecialKeywords)
			assert.Equal(t, tt.category, category)
			assert.Equal(t, tt.special, special)
		})
	}

	t.Run("custom keywords", func(t *testing.T) {
		_, special := Classify("Exotic Pet Clinic", []string{"Exotic"})
		assert.True(t, special)
		_, special = Classify("exotic pet clinic", []string{"Exotic"})
		assert.False(t, special)
	})
}

func TestExtract(t *testing.T) {
	schema := DefaultSchema()

	t.Run("fixed columns first", func(t *testing.T) {
		row := schema.Row(validRow().fields())
		name, ok := Extract(row, schema.NameExtractors()...)
		require.True(t, ok)
		assert.Equal(t, "서울동물병원", name)
	})

	t.Run("heuristic fallback", func(t *testing.T) {
		fields := []string{"x", "1", "부산광역시 해운대구 좌동", "해운대24시동물병원", "051-555-1234"}
		row := schema.Row(fields)

		name, ok := Extract(row, schema.NameExtractors()...)
		require.True(t, ok)
		assert.Equal(t, "해운대24시동물병원", name)

		address, ok := Extract(row, schema.AddressExtractors()...)
		require.True(t, ok)
		assert.Equal(t, "부산광역시 해운대구 좌동", address)

		phone, ok := Extract(row, schema.PhoneExtractors()...)
		require.True(t, ok)
		assert.Equal(t, "051-555-1234", phone)
	})

	t.Run("no match", func(t *testing.T) {
		_, ok := Extract(schema.Row(strings.Split("a,b,c", ",")), schema.PhoneExtractors()...)
		assert.False(t, ok)
	})
}
