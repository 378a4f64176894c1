package apiserver

import (
	"github.com/spf13/cobra"

	"github.com/avencore/devops-agent/internal/business"
	"github.com/avencore/devops-agent/internal/cmdutils"
)

func Cmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"api-server",
		"DevOps Agent API server",
		"DevOps Agent API server hosts the public HTTP API of the Azure DevOps AI agent",
		buildInfo,
		cmdutils.RunAsService,
		business.Main,
	)
}
