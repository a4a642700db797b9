package checkpoint

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/require"
)

func init() {
	logging.SetLevel(logging.WARNING, "checkpoint")
}

func TestSaveLoad(tst *testing.T) {
	db, err := Open(filepath.Join(tst.TempDir(), "cp.db"))
	require.NoError(tst, err)
	defer db.Close()

	cpIO := NewCheckpointIO(db, []byte("chain"), "HMC", 10)

	data, err := cpIO.Load()
	require.NoError(tst, err)
	require.Nil(tst, data)

	err = cpIO.Save(&CheckpointData{
		Parameters: map[string]float64{"mean_c": 1.5, "kern_logell": -0.3},
		Latent:     []float64{0.1, -0.2},
		Likelihood: -12.5,
		Iter:       42,
	})
	require.NoError(tst, err)

	data, err = cpIO.Load()
	require.NoError(tst, err)
	require.NotNil(tst, data)
	require.Equal(tst, "HMC", data.Method)
	require.Equal(tst, 42, data.Iter)
	require.False(tst, data.Final)
	require.InDelta(tst, 1.5, data.Parameters["mean_c"], 1e-12)
	require.Equal(tst, []float64{0.1, -0.2}, data.Latent)

	other := NewCheckpointIO(db, []byte("other"), "ESS", 10)
	data, err = other.Load()
	require.NoError(tst, err)
	require.Nil(tst, data)
}

func TestOld(tst *testing.T) {
	cpIO := NewCheckpointIO(nil, []byte("chain"), "", 0.01)
	if cpIO.Old() {
		tst.Error("Error: fresh checkpoint is old")
	}
	time.Sleep(20 * time.Millisecond)
	if !cpIO.Old() {
		tst.Error("Error: checkpoint should be old")
	}
	cpIO.SetNow()
	if cpIO.Old() {
		tst.Error("Error: checkpoint is old after SetNow")
	}
}

func TestNilDatabase(tst *testing.T) {
	require.NoError(tst, SaveData(nil, []byte("k"), []byte("v")))
	b, err := LoadData(nil, []byte("k"))
	require.NoError(tst, err)
	require.Nil(tst, b)
}
