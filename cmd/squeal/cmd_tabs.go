package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"github.com/willibrandon/squeal/internal/workbench"
)

func newTabsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tabs",
		Short: "List and manage tabs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkbench(func(wb *workbench.Workbench) error {
				printTabs(wb.State())
				return nil
			})
		},
	}

	cmd.AddCommand(
		newTabsListCmd(),
		newTabsAddCmd(),
		newTabsRmCmd(),
		newTabsRenameCmd(),
		newTabsUseCmd(),
	)
	return cmd
}

func newTabsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the saved tabs",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkbench(func(wb *workbench.Workbench) error {
				printTabs(wb.State())
				return nil
			})
		},
	}
}

func newTabsAddCmd() *cobra.Command {
	var (
		title string
		code  string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a tab and make it active",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkbench(func(wb *workbench.Workbench) error {
				_, tab := wb.AddTab()
				if strings.TrimSpace(title) != "" {
					wb.RenameTab(tab.ID, title)
				}
				if code != "" {
					wb.UpdateCode(tab.ID, code)
				}
				fmt.Println(tab.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "tab title")
	cmd.Flags().StringVar(&code, "sql", "", "tab contents")
	return cmd
}

func newTabsRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Remove a tab",
		Long:    "Remove a tab. Removing the last tab restores the default tabs.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkbench(func(wb *workbench.Workbench) error {
				if _, err := wb.Lookup(args[0]); err != nil {
					return err
				}
				st := wb.RemoveTab(args[0])
				fmt.Printf("Removed %s, active tab is %s\n", args[0], st.Session.ActiveID())
				return nil
			})
		},
	}
}

func newTabsRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename ID TITLE",
		Short: "Rename a tab",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(args[1])
			if title == "" {
				return fmt.Errorf("title cannot be empty")
			}
			return withWorkbench(func(wb *workbench.Workbench) error {
				if _, err := wb.Lookup(args[0]); err != nil {
					return err
				}
				wb.RenameTab(args[0], title)
				return nil
			})
		},
	}
}

func newTabsUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use ID",
		Short: "Make a tab active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkbench(func(wb *workbench.Workbench) error {
				if _, err := wb.Lookup(args[0]); err != nil {
					return err
				}
				wb.SetActiveTab(args[0])
				return nil
			})
		},
	}
}

func withWorkbench(fn func(*workbench.Workbench) error) error {
	e, err := openEnv("squeal-cli")
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(e.wb)
}

func printTabs(st workbench.State) {
	fmt.Fprint(os.Stdout, tabTree(st, termWidth()))
}

// tabTree renders the session as a tree: one branch per tab with its first line of SQL.
func tabTree(st workbench.State, width int) string {
	tree := treeprint.New()
	tree.SetValue(bold(fmt.Sprintf("%d tabs", st.Session.Len())))

	active := st.Session.ActiveID()
	for _, t := range st.Session.Tabs() {
		label := fmt.Sprintf("%s  %s", t.ID, t.Title)
		if t.ID == active {
			label = green(label + "  *")
		}
		branch := tree.AddBranch(label)
		if sql := strings.TrimSpace(t.Code); sql != "" {
			branch.AddNode(faint(truncate(sql, width-8)))
		}
	}
	return tree.String()
}
