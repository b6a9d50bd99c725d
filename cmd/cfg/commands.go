package cfg

import (
	"fmt"
	"github.com/ValentinKolb/tinycfg/lib/document"
	"github.com/ValentinKolb/tinycfg/lib/store"
	"github.com/spf13/cobra"
)

var (
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value for a key",
		Long: `Sets the value for a key. With --type auto (the default) the value is stored
as int if it is an integer, as float if it is a number and as string otherwise.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typeName, _ := cmd.Flags().GetString("type")
			value, err := parseValue(typeName, args[1])
			if err != nil {
				return err
			}
			if !cfgStore.Set(args[0], value) {
				return failed()
			}
			fmt.Printf("set %s=%s (%s)\n", args[0], value, value.Kind())
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Long: `Reads the value for a key. Without --type the value is printed as stored.
With --type it is converted, printing the fallback if the key is absent or
has no meaningful form of that type.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			typeName, _ := cmd.Flags().GetString("type")
			fallback, _ := cmd.Flags().GetString("fallback")
			hasFallback := cmd.Flags().Changed("fallback")

			if typeName == "" {
				doc := cfgStore.GetAllDocument()
				if cfgStore.LastError() != store.KindNone {
					return failed()
				}
				v, ok := doc.Get(key)
				switch {
				case ok:
					fmt.Println(v)
				case hasFallback:
					fmt.Println(fallback)
				default:
					return fmt.Errorf("key %q not found", key)
				}
				return nil
			}

			kind, err := document.ParseKind(typeName)
			if err != nil {
				return err
			}
			if !hasFallback {
				fallback = defaultFallback(kind)
			}
			fb, err := parseValue(kind.String(), fallback)
			if err != nil {
				return fmt.Errorf("invalid fallback: %w", err)
			}

			var out any
			switch kind {
			case document.KindInt:
				out = cfgStore.GetInt(key, fb.Int())
			case document.KindFloat:
				out = cfgStore.GetFloat(key, fb.Float())
			default:
				out = cfgStore.GetString(key, fb.Text())
			}
			if cfgStore.LastError() != store.KindNone {
				return failed()
			}
			fmt.Println(out)
			return nil
		},
	}
	dumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Prints the whole document as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fallback, _ := cmd.Flags().GetString("fallback")
			all := cfgStore.GetAll(fallback)
			if cfgStore.LastError() != store.KindNone && !cmd.Flags().Changed("fallback") {
				return failed()
			}
			fmt.Println(all)
			return nil
		},
	}
	keysCmd = &cobra.Command{
		Use:   "keys",
		Short: "Lists all keys in ascending order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := cfgStore.GetAllDocument()
			if cfgStore.LastError() != store.KindNone {
				return failed()
			}
			for _, key := range doc.Keys() {
				fmt.Println(key)
			}
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]...",
		Short: "Deletes one or more keys",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var deleted bool
			if len(args) == 1 {
				deleted = cfgStore.DeleteKey(args[0])
			} else {
				deleted = cfgStore.DeleteKeys(args...)
			}
			if cfgStore.LastError() != store.KindNone {
				return failed()
			}
			fmt.Printf("deleted=%t\n", deleted)
			return nil
		},
	}
	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Replaces the document with an empty one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfgStore.Reset() {
				return failed()
			}
			fmt.Println("reset successfully")
			return nil
		},
	}
)

func init() {
	setCmd.Flags().String("type", "auto", "value type (auto, int, float, string)")
	getCmd.Flags().String("type", "", "convert the value to this type (int, float, string)")
	getCmd.Flags().String("fallback", "", "value printed if the key is absent")
	dumpCmd.Flags().String("fallback", "{}", "output if the document cannot be read")
}
