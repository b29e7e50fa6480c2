package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cybercaution/cybercaution/internal/catalog"
)

const (
	jsonPrefix = ""
	jsonIndent = "  "
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect built-in and custom assessment catalogs",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available assessment catalogs",
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext()
		asJSON, _ := cmd.Flags().GetBool("json")

		catalogs := appCtx.Registry.List()
		out := cmd.OutOrStdout()

		if asJSON {
			type catalogInfo struct {
				Type          string `json:"type"`
				Name          string `json:"name"`
				Framework     string `json:"framework"`
				SectionCount  int    `json:"section_count"`
				QuestionCount int    `json:"question_count"`
			}
			infos := make([]catalogInfo, 0, len(catalogs))
			for _, c := range catalogs {
				infos = append(infos, catalogInfo{
					Type:          c.Type,
					Name:          c.Name,
					Framework:     c.Framework,
					SectionCount:  len(c.Sections),
					QuestionCount: c.QuestionCount(),
				})
			}
			b, _ := json.MarshalIndent(infos, jsonPrefix, jsonIndent)
			fmt.Fprintln(out, string(b))
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tNAME\tFRAMEWORK\tSECTIONS\tQUESTIONS")
		for _, c := range catalogs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
				c.Type, c.Name, c.Framework, len(c.Sections), c.QuestionCount())
		}
		return w.Flush()
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <type>",
	Short: "Show the sections and questions of a catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext()
		asJSON, _ := cmd.Flags().GetBool("json")

		cat, err := appCtx.Registry.Get(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		if asJSON {
			b, _ := json.MarshalIndent(cat, jsonPrefix, jsonIndent)
			fmt.Fprintln(out, string(b))
			return nil
		}

		fmt.Fprintf(out, "%s (%s)\n", cat.Name, cat.Framework)
		fmt.Fprintf(out, "%d sections, %d questions\n\n", len(cat.Sections), cat.QuestionCount())
		for i, sec := range cat.Sections {
			fmt.Fprintf(out, "%s %s", colorInfo(fmt.Sprintf("[%d]", i+1)), sec.Title)
			if sec.EstimatedTime != "" {
				fmt.Fprintf(out, " (%s, %s)", sec.Complexity, sec.EstimatedTime)
			}
			fmt.Fprintln(out)
			for _, q := range sec.Questions {
				fmt.Fprintf(out, "  %s  %s\n", q.ID, q.Prompt)
				if q.ControlRef != "" {
					fmt.Fprintf(out, "        ref: %s\n", q.ControlRef)
				}
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

var catalogFrameworksCmd = &cobra.Command{
	Use:   "frameworks",
	Short: "List the compliance frameworks catalogs reference",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		frameworks := catalog.GetFrameworkInfo()
		keys := make([]string, 0, len(frameworks))
		for key := range frameworks {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tNAME\tPUBLISHER")
		for _, key := range keys {
			fw := frameworks[key]
			fmt.Fprintf(w, "%s\t%s\t%s\n", fw.Key, fw.Name, fw.Publisher)
		}
		return w.Flush()
	},
}

func init() {
	catalogListCmd.Flags().Bool("json", false, "Output as JSON")
	catalogShowCmd.Flags().Bool("json", false, "Output as JSON")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogFrameworksCmd)
}
