package migrate

import (
	"github.com/spf13/cobra"

	"github.com/avencore/devops-agent/internal/business"
	"github.com/avencore/devops-agent/internal/cmdutils"
)

func Cmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"migrate",
		"DevOps Agent migrations",
		"",
		buildInfo,
		cmdutils.RunAsJob,
		business.MigrateMain,
	)
}
