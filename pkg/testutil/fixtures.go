package testutil

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Fixed UUIDs for deterministic testing
var (
	TestPredictionID1 = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	TestPredictionID2 = uuid.MustParse("00000000-0000-0000-0000-000000000002")
)

// Patient payloads covering the threshold-strategy scenarios.
const (
	PatientChestPainAndCholesterol = `{"chestPainType":3,"cholesterol":260,"bloodPressure":140}`
	PatientNoRiskFactors           = `{"chestPainType":1,"cholesterol":200,"bloodPressure":120}`
	PatientCholesterolAndPressure  = `{"chestPainType":1,"cholesterol":300,"bloodPressure":160}`
	PatientChestPainOnly           = `{"chestPainType":2,"cholesterol":240,"bloodPressure":140}`
	PatientMissingBloodPressure    = `{"chestPainType":3,"cholesterol":260}`
	PatientFull                    = `{"name":"Jane Doe","age":54,"gender":1,"chestPainType":2,"bloodPressure":130,"cholesterol":280}`
)

// SyntheticHeartCSV returns a labeled dataset in the public heart-disease CSV
// layout where the label is fully determined by cholesterol: rows with
// cholesterol 150-230 are healthy and rows with 270-350 are not. The fbs column
// is noise that readers must ignore.
func SyntheticHeartCSV(rows int, seed uint64) string {
	rng := rand.New(rand.NewPCG(seed, seed))

	var b strings.Builder
	b.WriteString("age,sex,cp,trestbps,chol,fbs,target\n")
	for i := 0; i < rows; i++ {
		target := i % 2
		chol := 150 + rng.IntN(81)
		if target == 1 {
			chol = 270 + rng.IntN(81)
		}
		fmt.Fprintf(&b, "%d,%d,%d,%d,%d,%d,%d\n",
			29+rng.IntN(49),
			rng.IntN(2),
			rng.IntN(4),
			94+rng.IntN(107),
			chol,
			rng.IntN(2),
			target,
		)
	}
	return b.String()
}

// WriteFile writes content to name inside dir and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
