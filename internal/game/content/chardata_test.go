package content_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/game/content"
)

const meleeMinionYAML = `
model: blue_minion_melee
name: Melee Minion
kind: minion
minion_type: melee
is_melee: true
attack_delay: 0.3
attack_range: 110
attack_damage: 12
move_speed: 325
health: 455
`

func TestParseCharData_AppliesDefaults(t *testing.T) {
	cd, err := content.ParseCharData([]byte(meleeMinionYAML))
	require.NoError(t, err)
	assert.Equal(t, "blue_minion_melee", cd.Model)
	assert.True(t, cd.IsMelee)
	assert.Equal(t, content.DefaultProjectileSpeed, cd.AttackProjectileSpeed)
	assert.Equal(t, content.DefaultCollisionRadius, cd.CollisionRadius)
	assert.Equal(t, content.DefaultCritDamage, cd.CritDamage)
	assert.Equal(t, content.DefaultAttackSpeed, cd.AttackSpeed)
}

func TestParseCharData_ExplicitZeroCritDamageKept(t *testing.T) {
	cd, err := content.ParseCharData([]byte(meleeMinionYAML + "crit_damage: 0\n"))
	require.NoError(t, err)
	assert.Zero(t, cd.CritDamage)
}

func TestParseCharData_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty model":        "kind: champion\nhealth: 1\n",
		"unknown kind":       "model: x\nkind: dragon\nhealth: 1\n",
		"minion without sub": "model: x\nkind: minion\nhealth: 1\n",
		"zero health":        "model: x\nkind: champion\n",
		"negative range":     "model: x\nkind: champion\nhealth: 1\nattack_range: -5\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := content.ParseCharData([]byte(src))
			assert.Error(t, err)
		})
	}
}

func TestRegistry_Get_Unknown(t *testing.T) {
	reg := content.NewRegistry()
	_, err := reg.Get("nobody")
	assert.ErrorIs(t, err, content.ErrUnknownModel)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "minion.yaml"), []byte(meleeMinionYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "turret.yaml"), []byte(`
model: blue_turret
kind: turret
attack_range: 775
attack_damage: 152
health: 3300
`), 0644))

	reg, err := content.LoadDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"blue_minion_melee", "blue_turret"}, reg.Models())

	cd, err := reg.Get("blue_turret")
	require.NoError(t, err)
	assert.False(t, cd.IsMelee)
}

func TestLoadDirectory_BadFileNamesPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("model: [unclosed"), 0644))
	_, err := content.LoadDirectory(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}
