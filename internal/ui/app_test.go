package ui

import (
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubble-exchange/web3-onboard/internal/prefs"
	"github.com/hubble-exchange/web3-onboard/internal/state"
	"github.com/hubble-exchange/web3-onboard/internal/wallet"
)

type fakeController struct {
	next         []string
	err          error
	disconnected int
}

func (f *fakeController) Next() (string, error) {
	if f.err != nil {
		return "", f.err
	}
	name := f.next[0]
	f.next = f.next[1:]
	return name, nil
}

func (f *fakeController) Disconnect() { f.disconnected++ }

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func connectedState() wallet.State {
	return wallet.State{
		App:          wallet.AppState{Name: "exchange", NetworkID: 1},
		Connected:    true,
		Wallet:       "alpha",
		Address:      "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		Network:      5,
		Balance:      big.NewInt(1),
		BalanceEther: "1.5000",
		WrongNetwork: true,
		Phases: map[string]state.Phase{
			wallet.SliceAddress: state.PhaseSynced,
			wallet.SliceNetwork: state.PhaseSynced,
			wallet.SliceBalance: state.PhaseUnsynced,
		},
		Syncing: []string{wallet.SliceBalance},
	}
}

func TestModel_LoadingUntilFirstState(t *testing.T) {
	m := New(Options{}, nil)
	assert.Equal(t, "Loading...", m.View())
}

func TestModel_RendersCombinedState(t *testing.T) {
	m, cmd := update(t, New(Options{}, nil), stateMsg(connectedState()))
	assert.Nil(t, cmd)

	out := m.View()
	assert.Contains(t, out, "walletsync")
	assert.Contains(t, out, "exchange")
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	assert.Contains(t, out, "wrong network")
	assert.Contains(t, out, "switch to mainnet")
	assert.Contains(t, out, "syncing")
	assert.Contains(t, out, "synced")
}

func TestModel_RendersDisconnected(t *testing.T) {
	st := wallet.State{
		Phases: map[string]state.Phase{
			wallet.SliceAddress: state.PhaseUnsynced,
			wallet.SliceNetwork: state.PhaseUnsynced,
			wallet.SliceBalance: state.PhaseUnsynced,
		},
	}
	m, _ := update(t, New(Options{}, nil), stateMsg(st))

	out := m.View()
	assert.Contains(t, out, "disconnected")
	assert.Contains(t, out, "unsynced")
	assert.NotContains(t, out, "wrong network")
}

func TestModel_StateMessagesKeepListening(t *testing.T) {
	updates := make(chan wallet.State, 1)
	m := New(Options{}, updates)

	updates <- connectedState()
	msg := waitForState(updates)()
	m, cmd := update(t, m, msg)
	require.NotNil(t, cmd)
	assert.True(t, m.ready)

	close(updates)
	assert.Nil(t, cmd())
}

func TestModel_NextWalletKey(t *testing.T) {
	ctrl := &fakeController{next: []string{"beta"}}
	m, _ := update(t, New(Options{Controller: ctrl}, nil), stateMsg(connectedState()))

	m, cmd := update(t, m, keyPress("n"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, "connected beta", m.status)
	assert.False(t, m.statusErr)
	assert.Contains(t, m.View(), "connected beta")
}

func TestModel_NextWalletKeyReportsError(t *testing.T) {
	ctrl := &fakeController{err: errors.New("name must not be blank")}
	m, cmd := update(t, New(Options{Controller: ctrl}, nil), keyPress("n"))
	m, _ = update(t, m, cmd())

	assert.True(t, m.statusErr)
	assert.Equal(t, "connect failed: name must not be blank", m.status)
}

func TestModel_DisconnectKey(t *testing.T) {
	ctrl := &fakeController{}
	m, cmd := update(t, New(Options{Controller: ctrl}, nil), keyPress("d"))
	m, _ = update(t, m, cmd())

	assert.Equal(t, 1, ctrl.disconnected)
	assert.Equal(t, "disconnected", m.status)
}

func TestModel_KeysWithoutController(t *testing.T) {
	m, cmd := update(t, New(Options{}, nil), keyPress("n"))
	m, _ = update(t, m, cmd())
	assert.True(t, m.statusErr)
	assert.Equal(t, "no scenario loaded", m.status)
}

func TestModel_QuitKey(t *testing.T) {
	_, cmd := update(t, New(Options{}, nil), keyPress("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestModel_ThemeAndHelpKeys(t *testing.T) {
	m := New(Options{ThemeName: "Slate"}, nil)
	assert.Equal(t, "Slate", m.theme.Name)

	m, _ = update(t, m, keyPress("T"))
	assert.Equal(t, "Nightfox", m.theme.Name)

	m, _ = update(t, m, keyPress("?"))
	assert.True(t, m.help.ShowAll)
}

func TestModel_ThemeKeySavesPrefs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m, _ := update(t, New(Options{PrefsPath: path}, nil), keyPress("T"))

	assert.Equal(t, "Kanagawa", m.theme.Name)
	assert.Equal(t, "Kanagawa", prefs.Load(path).Theme)
}

func TestModel_ShowsRecentLogEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walletsync.log")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"level":"warn","msg":"slice sync failed","slice":"network"}`+"\n"), 0o600))

	m := New(Options{LogPath: path}, nil)
	require.NotNil(t, m.Init())

	m, _ = update(t, m, stateMsg(connectedState()))
	m, _ = update(t, m, readLogsCmd(path)())
	assert.Contains(t, m.View(), "WARN slice sync failed slice=network")

	_, cmd := update(t, m, tickMsg(time.Now()))
	assert.NotNil(t, cmd)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abcdef", truncate("abcdef", 0))
	assert.Equal(t, "abcdef", truncate("abcdef", 6))
	assert.Equal(t, "ab...", truncate("abcdef", 5))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}
