package main

import (
	"os"

	"github.com/sierrasoftworks/humane-errors-go"
	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/quansight/conda-store-operator/api/v1alpha1"
	"github.com/quansight/conda-store-operator/internal/cli/pretty_print"
	"github.com/quansight/conda-store-operator/pkg/client/k8s"
)

var outputsCmd = &cobra.Command{
	Use:   "outputs",
	Short: "Print the published outputs of the conda-store share",
	Long: `Read the provisioned conda-store share from the cluster and print its
published outputs: the NFS endpoint DNS name, the Service cluster IP,
and the per-service tokens in their rendered (base64) form.`,
	Example: `# Print the outputs of the default share
conda-store-operator outputs

# Print the outputs of a share in another namespace
conda-store-operator outputs --namespace conda-store-prod`,
	Args:      cobra.ExactArgs(0),
	ValidArgs: []string{},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runOutputs(cmd, args); err != nil {
			pretty_print.PrintError(err)
			os.Exit(1)
		}

		return nil
	},
}

func runOutputs(cmd *cobra.Command, _ []string) humane.Error {
	condaStoreClient, err := newDirectClient()
	if err != nil {
		return err
	}

	out, err := condaStoreClient.GetOutputs(cmd.Context())
	if err != nil {
		if err == k8s.NotReadyYetError {
			pretty_print.PrintWarn("The conda-store share is still provisioning", "try again in a few seconds")
			return nil
		}
		return err
	}

	pretty_print.PrintOutputs(out)
	return nil
}

// newDirectClient builds a CondaStoreClient backed by a plain API
// client so the outputs command works without starting the manager.
func newDirectClient() (k8s.CondaStoreClient, humane.Error) {
	cfg, err := ctrl.GetConfig()
	if err != nil {
		return nil, humane.Wrap(err, "failed to load Kubernetes config",
			"run this command with a kubeconfig or from inside the cluster")
	}

	scheme := runtime.NewScheme()
	if err := clientgoscheme.AddToScheme(scheme); err != nil {
		return nil, humane.Wrap(err, "failed to add clientgoscheme to scheme")
	}
	if err := v1alpha1.AddToScheme(scheme); err != nil {
		return nil, humane.Wrap(err, "failed to add v1alpha1 to scheme")
	}

	c, err := client.New(cfg, client.Options{Scheme: scheme})
	if err != nil {
		return nil, humane.Wrap(err, "failed to create Kubernetes client")
	}

	return k8s.NewCondaStoreClient(c, getClientOptions()), nil
}
