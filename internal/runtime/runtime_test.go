package runtime

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticProvider_Defaults(t *testing.T) {
	flags := NewStaticProvider(nil)

	assert.False(t, flags.GetBool(FraudEnablePayoutDelayAfterBankChange, false))
	assert.True(t, flags.GetBool(FraudEnablePayoutDelayAfterBankChange, true))
	assert.Equal(t, 48, flags.GetInt(FraudMinimumHoursBeforePayoutAfterChange, 48))
	assert.Nil(t, flags.GetIntList(PayoutDasherAccountStopList, nil))
}

func TestStaticProvider_SetOverrides(t *testing.T) {
	flags := NewStaticProvider(nil)
	flags.Set(FraudEnablePayoutDelayAfterBankChange, true)
	flags.Set(FraudMinimumHoursBeforePayoutAfterChange, 72)
	flags.Set(PayoutMerchantAccountStopList, []int64{7, 9})

	assert.True(t, flags.GetBool(FraudEnablePayoutDelayAfterBankChange, false))
	assert.Equal(t, 72, flags.GetInt(FraudMinimumHoursBeforePayoutAfterChange, 0))
	assert.Equal(t, []int64{7, 9}, flags.GetIntList(PayoutMerchantAccountStopList, nil))
}

func TestStaticProvider_MistypedValueFallsBackToDefault(t *testing.T) {
	flags := NewStaticProvider(map[Key]any{
		FraudMinimumHoursBeforePayoutAfterChange: "48",
	})

	assert.Equal(t, 24, flags.GetInt(FraudMinimumHoursBeforePayoutAfterChange, 24))
}

func TestLoadFile(t *testing.T) {
	t.Run("ParsesScalarsAndLists", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "flags.yaml")
		content := `
fraud.enable_payout_delay_after_bank_change: true
fraud.minimum_hours_before_payout_after_bank_change: 48
payout.dasher_account_stop_list: [101, 102]
payout.merchant_account_stop_list: []
`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write flag file: %v", err)
		}

		flags, err := LoadFile(path)
		assert.NoError(t, err)
		assert.True(t, flags.GetBool(FraudEnablePayoutDelayAfterBankChange, false))
		assert.Equal(t, 48, flags.GetInt(FraudMinimumHoursBeforePayoutAfterChange, 0))
		assert.Equal(t, []int64{101, 102}, flags.GetIntList(PayoutDasherAccountStopList, nil))
		assert.Empty(t, flags.GetIntList(PayoutMerchantAccountStopList, []int64{1}))
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("MalformedYAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "flags.yaml")
		if err := os.WriteFile(path, []byte("{not yaml"), 0o644); err != nil {
			t.Fatalf("failed to write flag file: %v", err)
		}

		_, err := LoadFile(path)
		assert.Error(t, err)
	})
}
