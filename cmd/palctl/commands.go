package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/miekg/pkcs11"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/niclabs/p11pal/core"
	"github.com/niclabs/p11pal/objects"
	"github.com/niclabs/p11pal/pal"
)

var (
	inPath  string
	outPath string
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Store an object, replacing any previous content",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, inPath)
		if err != nil {
			return err
		}
		return withStore(cmd, func(ctx context.Context, store *pal.Store, label []byte) error {
			handle := store.SaveObject(ctx, pkcs11.NewAttribute(pkcs11.CKA_LABEL, label), data)
			if handle == objects.InvalidHandle {
				return fmt.Errorf("cannot save object %q", label)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %d bytes, handle %d\n", len(data), handle)
			return nil
		})
	},
}

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Print the handle of a stored object",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store *pal.Store, label []byte) error {
			handle := store.FindObject(ctx, label)
			if handle == objects.InvalidHandle {
				return fmt.Errorf("object %q not found", label)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\n", handle)
			return nil
		})
	},
}

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Write the content of a stored object",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store *pal.Store, label []byte) error {
			handle := store.FindObject(ctx, label)
			if handle == objects.InvalidHandle {
				return fmt.Errorf("object %q not found", label)
			}
			value, err := store.GetObjectValue(ctx, handle)
			if err != nil {
				return err
			}
			defer store.GetObjectValueCleanup(value)
			return writeOutput(cmd, outPath, value.Data)
		})
	},
}

var destroyCmd = &cobra.Command{
	Use:   "destroy",
	Short: "Remove a stored object",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store *pal.Store, label []byte) error {
			kind := store.Kind(label)
			if kind == objects.Invalid {
				return fmt.Errorf("unknown label %q", label)
			}
			return store.DestroyObject(ctx, kind.Handle())
		})
	},
}

func init() {
	saveCmd.Flags().StringVarP(&inPath, "in", "i", "-", "file to read the object from, - for stdin")
	getCmd.Flags().StringVarP(&outPath, "out", "o", "-", "file to write the object to, - for stdout")
}

// withStore opens the configured store and runs fn with the label given on
// the command line.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, store *pal.Store, label []byte) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if verbose {
		viper.Set("general.loglevel", "debug")
	}
	store, err := core.NewStore(ctx, configPath, core.HeapAllocatorFactory)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(ctx, store, resolveLabel(store, labelFlag))
}

// resolveLabel turns a kind name into the label the store uses for it.
// Anything else is taken as a raw label.
func resolveLabel(store *pal.Store, name string) []byte {
	if kind, ok := objects.KindByName(name); ok {
		return store.Label(kind)
	}
	return []byte(name)
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(path, data, 0600)
}
