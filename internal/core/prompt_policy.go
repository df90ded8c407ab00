package core

// PolicyPrompter answers prompts without a terminal, following the
// non-interactive policy:
//
//   - existing installation: upgrade in place (the safe default; --upgrade
//     makes it explicit and skips even this).
//   - companion platform: install, unless the run looks like unattended
//     automation and the user did not explicitly opt in.
type PolicyPrompter struct {
	// Automation is true for CI-style unattended runs.
	Automation bool
	// PlatformOptIn is the explicit force-install signal for automation.
	PlatformOptIn bool
	// AssumeYes mirrors --yes.
	AssumeYes bool
}

func (p PolicyPrompter) ChooseUpgrade() (UpgradeChoice, error) {
	return UpgradeExisting, nil
}

func (p PolicyPrompter) ConfirmPlatformInstall() (bool, error) {
	if p.AssumeYes {
		return true, nil
	}
	if p.Automation && !p.PlatformOptIn {
		return false, nil
	}
	return true, nil
}
