package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dgallion1/contentgen/internal/cleaner"
	"github.com/dgallion1/contentgen/internal/generate"
	"github.com/dgallion1/contentgen/internal/render"
)

type rootFlags struct {
	themeFile   string
	noPdftotext bool
	verbose     bool
	out         string
	asJSON      bool
}

type blogFlags struct {
	markdown      bool
	images        []string
	featuredURL   string
	featuredAlt   string
	featuredTitle string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var rf rootFlags

	rootCmd := &cobra.Command{
		Use:   "contentgen",
		Short: "Turn documents into blog, course and glossary HTML",
		Long: `contentgen converts a .docx, .html, .md, .pdf, .csv or .txt document into
CMS-ready HTML fragments. Each subcommand prints its sections to stdout, or
writes one file per section with --out.`,
		SilenceUsage: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.PersistentFlags().StringVar(&rf.themeFile, "theme", "", "YAML render theme file")
	rootCmd.PersistentFlags().BoolVar(&rf.noPdftotext, "no-pdftotext", false, "Do not fall back to pdftotext for PDFs")
	rootCmd.PersistentFlags().BoolVarP(&rf.verbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().StringVarP(&rf.out, "out", "o", "", "Directory to write one file per section")
	rootCmd.PersistentFlags().BoolVar(&rf.asJSON, "json", false, "Print the full result as JSON")

	var bf blogFlags
	blogCmd := &cobra.Command{
		Use:   "blog <file>",
		Short: "Generate a blog post and its FAQ accordion",
		Example: `  contentgen blog draft.docx
  contentgen blog draft.docx --image https://cdn.example.com/1.png --markdown -o out/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, rf, generate.KindBlog, args[0], generate.Options{
				Markdown: bf.markdown,
				Images: render.Images{
					FeaturedURL:   bf.featuredURL,
					FeaturedAlt:   bf.featuredAlt,
					FeaturedTitle: bf.featuredTitle,
					URLs:          bf.images,
				},
			})
		},
	}
	blogCmd.Flags().BoolVar(&bf.markdown, "markdown", false, "Also emit a Markdown version")
	blogCmd.Flags().StringArrayVar(&bf.images, "image", nil, "Image URL, in document order (repeatable)")
	blogCmd.Flags().StringVar(&bf.featuredURL, "featured", "", "Featured image URL")
	blogCmd.Flags().StringVar(&bf.featuredAlt, "featured-alt", "", "Featured image alt text")
	blogCmd.Flags().StringVar(&bf.featuredTitle, "featured-title", "", "Featured image title")

	var courseTitle string
	courseCmd := &cobra.Command{
		Use:   "course <file>",
		Short: "Generate course overview, objectives, syllabus and FAQ",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, rf, generate.KindCourse, args[0], generate.Options{CourseTitle: courseTitle})
		},
	}
	courseCmd.Flags().StringVarP(&courseTitle, "title", "t", "", "Course title (defaults to the document title)")

	glossaryCmd := &cobra.Command{
		Use:   "glossary <file>",
		Short: "Generate an A-Z tabbed glossary from the first two-column table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, rf, generate.KindGlossary, args[0], generate.Options{})
		},
	}

	var optionsFile string
	cleanCmd := &cobra.Command{
		Use:   "clean <file>",
		Short: "Strip styling, empty tags and non-breaking spaces from HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts generate.Options
			if optionsFile != "" {
				co, err := loadCleanOptions(optionsFile)
				if err != nil {
					return err
				}
				opts.Clean = &co
			}
			return run(cmd, rf, generate.KindClean, args[0], opts)
		},
	}
	cleanCmd.Flags().StringVar(&optionsFile, "options", "", "YAML file of cleaner options")

	rootCmd.AddCommand(blogCmd, courseCmd, glossaryCmd, cleanCmd)
	return rootCmd
}

func run(cmd *cobra.Command, rf rootFlags, kind generate.Kind, path string, opts generate.Options) error {
	level := slog.LevelInfo
	if rf.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	gen := generate.New()
	gen.PDFFallback = !rf.noPdftotext
	if rf.themeFile != "" {
		theme, err := render.LoadTheme(rf.themeFile)
		if err != nil {
			return err
		}
		gen.Theme = theme
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	opts.OnStage = func(s generate.Stage) { log.Debug("stage", "stage", s) }
	res, err := gen.GenerateFile(kind, f, filepath.Base(path), opts)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		log.Warn(w.Message, "code", w.Code)
	}

	if rf.out != "" {
		return writeSections(log, rf.out, res)
	}
	return printResult(cmd.OutOrStdout(), res, rf.asJSON)
}

func printResult(w io.Writer, res *generate.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	names := sectionNames(res)
	for i, name := range names {
		if len(names) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "<!-- %s -->\n", name)
		}
		fmt.Fprintln(w, res.Sections[name])
	}
	return nil
}

// writeSections writes <slug>-<section>.html (or .md) per section into dir.
func writeSections(log *slog.Logger, dir string, res *generate.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	base := res.Slug
	if base == "" {
		base = string(res.Kind)
	}
	for _, name := range sectionNames(res) {
		ext := ".html"
		if name == generate.SectionMarkdown {
			ext = ".md"
		}
		path := filepath.Join(dir, base+"-"+name+ext)
		if err := os.WriteFile(path, []byte(res.Sections[name]), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Info("wrote section", "path", path)
	}
	return nil
}

var sectionOrder = []string{
	generate.SectionBlog, generate.SectionMarkdown,
	generate.SectionOverview, generate.SectionObjectives, generate.SectionSyllabus,
	generate.SectionCourseFAQ, generate.SectionGlossary, generate.SectionClean,
}

// sectionNames lists the result's sections in page order.
func sectionNames(res *generate.Result) []string {
	names := make([]string, 0, len(res.Sections))
	for _, name := range sectionOrder {
		if _, ok := res.Sections[name]; ok && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

func loadCleanOptions(path string) (cleaner.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cleaner.Options{}, err
	}
	opts := cleaner.DefaultOptions()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return cleaner.Options{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return opts, nil
}
