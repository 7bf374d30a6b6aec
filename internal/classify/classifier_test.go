package classify

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/agenthub-cli/internal/dataset"
)

func texts(ss ...string) []dataset.Value {
	out := make([]dataset.Value, len(ss))
	for i, s := range ss {
		out[i] = dataset.ParseToken(s)
	}
	return out
}

func col(name string, ss ...string) dataset.Column {
	return dataset.Column{Name: name, Values: texts(ss...)}
}

func sampleDataset() *dataset.Dataset {
	return dataset.MustNew(
		col("Date", "2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"),
		col("Location", "Paris", "Lyon", "Paris", "Nice", "Lyon"),
		col("DataValue", "1.5", "2", "3.25", "4", "5"),
	)
}

func allClassifiers() map[string]ColumnClassifier {
	return map[string]ColumnClassifier{
		StrategyValue:        &ValueBasedClassifier{},
		StrategyValueLenient: &ValueBasedClassifier{DateMode: DateLenient},
		StrategyName:         &NameHeuristicClassifier{},
	}
}

func TestClassifySampleDataset(t *testing.T) {
	for name, c := range allClassifiers() {
		t.Run(name, func(t *testing.T) {
			res, err := c.Classify(sampleDataset())
			require.NoError(t, err)
			assert.Equal(t, []string{"Date"}, res.Temporal)
			assert.Equal(t, []string{"Location"}, res.Categorical)
			assert.Equal(t, []string{"DataValue"}, res.Numeric)
		})
	}
}

func TestValueBasedCoercesWorkingCopyOnly(t *testing.T) {
	ds := sampleDataset()
	res, err := (&ValueBasedClassifier{}).Classify(ds)
	require.NoError(t, err)

	orig, _ := ds.Column("Date")
	for _, v := range orig.Values {
		assert.True(t, v.IsText(), "input must not be mutated")
	}
	work, _ := res.Working.Column("Date")
	for _, v := range work.Values {
		assert.True(t, v.IsTime())
	}
	num, _ := res.Working.Column("DataValue")
	f, ok := num.Values[2].Float()
	require.True(t, ok)
	assert.Equal(t, 3.25, f)
}

func TestNumericThresholdBoundary(t *testing.T) {
	build := func(numeric, total int) *dataset.Dataset {
		vals := make([]string, total)
		for i := range vals {
			if i < numeric {
				vals[i] = fmt.Sprint(i)
			} else {
				vals[i] = "x" + fmt.Sprint(i)
			}
		}
		return dataset.MustNew(col("v", vals...))
	}
	cases := []struct {
		numeric, total int
		want           Role
	}{
		{3, 5, Numeric},
		{60, 100, Numeric},
		{59, 100, Categorical},
		{6, 10, Numeric},
		{5, 10, Categorical},
	}
	for _, tc := range cases {
		for name, c := range allClassifiers() {
			t.Run(fmt.Sprintf("%s/%d_of_%d", name, tc.numeric, tc.total), func(t *testing.T) {
				res, err := c.Classify(build(tc.numeric, tc.total))
				require.NoError(t, err)
				role, ok := res.Role("v")
				require.True(t, ok)
				assert.Equal(t, tc.want, role)
			})
		}
	}
}

func TestMissingCountsAgainstNumericShare(t *testing.T) {
	// 3 of 5 rows numeric, 2 missing: still exactly 60%.
	ds := dataset.MustNew(col("v", "1", "", "2", "NA", "3"))
	res, err := (&ValueBasedClassifier{}).Classify(ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"v"}, res.Numeric)

	ds = dataset.MustNew(col("v", "1", "", "2", "NA", ""))
	res, err = (&ValueBasedClassifier{}).Classify(ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"v"}, res.Categorical)
}

func TestAllMissingIsCategorical(t *testing.T) {
	ds := dataset.MustNew(col("X", "", "NA", ""))
	for name, c := range allClassifiers() {
		t.Run(name, func(t *testing.T) {
			res, err := c.Classify(ds)
			require.NoError(t, err)
			assert.Equal(t, []string{"X"}, res.Categorical)
		})
	}
}

func TestNativeTimestampsAreTemporal(t *testing.T) {
	ts, _ := dataset.ParseTime("2024-05-01")
	ds := dataset.MustNew(dataset.Column{Name: "when", Values: []dataset.Value{dataset.Timestamp(ts), dataset.Missing()}})
	res, err := (&ValueBasedClassifier{}).Classify(ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"when"}, res.Temporal)
}

func TestStrictVersusLenientDates(t *testing.T) {
	vals := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05",
		"2024-01-06", "2024-01-07", "2024-01-08", "2024-01-09", "garbage"}
	ds := dataset.MustNew(col("d", vals...))

	res, err := (&ValueBasedClassifier{}).Classify(ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"d"}, res.Categorical, "strict mode rejects any unparseable value")

	res, err = (&ValueBasedClassifier{DateMode: DateLenient}).Classify(ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"d"}, res.Temporal, "10% unparseable is under the lenient bound")
	work, _ := res.Working.Column("d")
	assert.True(t, work.Values[9].IsMissing())

	vals[8] = "junk"
	ds = dataset.MustNew(col("d", vals...))
	res, err = (&ValueBasedClassifier{DateMode: DateLenient}).Classify(ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"d"}, res.Categorical, "20% unparseable is not accepted")
}

func TestNumericNamedDateDiverges(t *testing.T) {
	ds := dataset.MustNew(dataset.Column{Name: "date", Values: []dataset.Value{
		dataset.Number(20240101), dataset.Number(20240102), dataset.Number(20240103),
	}})

	res, err := (&ValueBasedClassifier{}).Classify(ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"date"}, res.Numeric)

	res, err = (&NameHeuristicClassifier{}).Classify(ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"date"}, res.Temporal)
}

func TestNameHeuristicIgnoresValues(t *testing.T) {
	ds := dataset.MustNew(
		col("created", "2024-01-01", "2024-01-02"),
		col("UpdateTime", "soon", "later"),
	)
	res, err := (&NameHeuristicClassifier{}).Classify(ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"UpdateTime"}, res.Temporal)
	assert.Equal(t, []string{"created"}, res.Categorical)
}

func TestPartitionAndIdempotence(t *testing.T) {
	ds := dataset.MustNew(
		col("a", "1", "2", "x", "4", "5"),
		col("b", "2024-02-01", "", "2024-02-03", "2024-02-04", "2024-02-05"),
		col("c", "red", "green", "", "blue", "red"),
		col("sale_time", "1", "2", "3", "4", "5"),
		col("e", "", "", "", "", ""),
		dataset.Column{Name: "f", Values: []dataset.Value{
			dataset.Bool(true), dataset.Bool(false), dataset.Missing(), dataset.Bool(true), dataset.Bool(true),
		}},
	)
	for name, c := range allClassifiers() {
		t.Run(name, func(t *testing.T) {
			res, err := c.Classify(ds)
			require.NoError(t, err)

			var all []string
			all = append(all, res.Temporal...)
			all = append(all, res.Numeric...)
			all = append(all, res.Categorical...)
			sort.Strings(all)
			want := ds.Names()
			sort.Strings(want)
			assert.Equal(t, want, all, "role sets must partition the columns")
			assert.Len(t, res.Roles(), ds.NumCols())

			again, err := c.Classify(res.Working)
			require.NoError(t, err)
			assert.Equal(t, res.Roles(), again.Roles())
		})
	}
}

func TestNew(t *testing.T) {
	for _, s := range []string{"", "value", "VALUE", "value-lenient", "name"} {
		c, err := New(s)
		require.NoError(t, err, s)
		require.NotNil(t, c)
	}
	_, err := New("magic")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "magic"))
}

func TestNilDataset(t *testing.T) {
	for name, c := range allClassifiers() {
		t.Run(name, func(t *testing.T) {
			_, err := c.Classify(nil)
			assert.ErrorIs(t, err, ErrNilDataset)
		})
	}
}
