package simulate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demo = `
[[wallet]]
name = "alpha"
  [wallet.address]
  mode = "push"
  values = ["0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"]
  latency_ms = 10
  [wallet.network]
  values = [1, 5]
  every_ms = 4000
  fail_every = 3
  [wallet.balance]
  values = ["1500000000000000000", ""]

[[wallet]]
name = "beta"
  [wallet.network]
  mode = "PUSH"
  values = [137]

[[step]]
at_ms = 500
disconnect = true

[[step]]
at_ms = 0
connect = "alpha"
`

func TestParse_BuildsWalletsAndSortsSteps(t *testing.T) {
	sc, err := Parse([]byte(demo))
	require.NoError(t, err)

	require.Len(t, sc.Wallets, 2)
	alpha, ok := sc.Wallet("alpha")
	require.True(t, ok)
	require.NotNil(t, alpha.Address)
	assert.Equal(t, ModePush, alpha.Address.Mode)
	assert.Equal(t, 10*time.Millisecond, alpha.Address.Latency)

	require.NotNil(t, alpha.Network)
	assert.Equal(t, ModePoll, alpha.Network.Mode)
	assert.Equal(t, []uint64{1, 5}, alpha.Network.Values)
	assert.Equal(t, 4*time.Second, alpha.Network.Every)
	assert.Equal(t, 3, alpha.Network.FailEvery)

	require.NotNil(t, alpha.Balance)
	require.Len(t, alpha.Balance.Values, 2)
	assert.Equal(t, "1500000000000000000", alpha.Balance.Values[0].String())
	assert.Nil(t, alpha.Balance.Values[1])

	beta, ok := sc.Wallet("beta")
	require.True(t, ok)
	assert.Nil(t, beta.Address)
	assert.Equal(t, ModePush, beta.Network.Mode)

	require.Len(t, sc.Steps, 2)
	assert.Equal(t, Step{At: 0, Connect: "alpha"}, sc.Steps[0])
	assert.Equal(t, Step{At: 500 * time.Millisecond}, sc.Steps[1])
}

func TestWalletSpec_InterfaceMapsModes(t *testing.T) {
	sc, err := Parse([]byte(demo))
	require.NoError(t, err)
	alpha, _ := sc.Wallet("alpha")

	iface := alpha.Interface()
	assert.Equal(t, "alpha", iface.Name)
	assert.Equal(t, map[string]string{
		"address": "push",
		"network": "poll",
		"balance": "poll",
	}, iface.Modes())
}

func TestParse_ReportsEveryProblem(t *testing.T) {
	_, err := Parse([]byte(`
[[wallet]]
name = "alpha"
  [wallet.address]
  values = ["not-an-address"]
  [wallet.network]
  mode = "carrier-pigeon"
  values = [1]
  [wallet.balance]
  values = ["-5"]

[[wallet]]
name = "alpha"

[[wallet]]
name = " "

[[step]]
connect = "ghost"

[[step]]
at_ms = 10

[[step]]
connect = "alpha"
disconnect = true
`))
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{
		"invalid scenario",
		`"not-an-address" is not a hex address`,
		`unknown mode "carrier-pigeon"`,
		`"-5" is not a wei amount`,
		`wallet "alpha": defined twice`,
		"wallet 2: name is blank",
		`step 0: unknown wallet "ghost"`,
		"step 1: neither connect nor disconnect set",
		"step 2: both connect and disconnect set",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestParse_RejectsEmptyValuesAndPushFailures(t *testing.T) {
	_, err := Parse([]byte(`
[[wallet]]
name = "alpha"
  [wallet.address]
  values = []
  [wallet.network]
  mode = "push"
  values = [1]
  fail_every = 2
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "values must not be empty")
	assert.Contains(t, err.Error(), "fail_every only applies to poll mode")
}

func TestParse_RequiresAWallet(t *testing.T) {
	_, err := Parse([]byte(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no wallets defined")
}

func TestParse_BadTOML(t *testing.T) {
	_, err := Parse([]byte("[[wallet"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse scenario")
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.toml")
	require.NoError(t, os.WriteFile(path, []byte(demo), 0o600))

	sc, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, sc.Wallets, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open scenario")
}
