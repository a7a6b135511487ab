package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"webfolio/internal/cache"
	"webfolio/internal/config"
	"webfolio/internal/llm"
	"webfolio/internal/scan"
	"webfolio/internal/store"
	"webfolio/internal/studygen"
)

// openStore loads config and binds the store; offline (or key-less)
// environments get the deterministic fake client so every command still works.
func openStore(cfgPath string, forceOffline bool) (*store.Store, *studygen.Generator, *config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, nil, err
	}
	offline := forceOffline || cfg.Offline || !config.HasAPIKey()

	var cli llm.Client
	if offline {
		cli = llm.NewFakeClient()
	} else {
		cli, err = llm.NewGeminiClient(context.Background(), cfg.Model)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	gen := &studygen.Generator{LLM: llm.WithHook(cli, logHook{})}

	s, err := store.Open(cfg.Base, store.Options{
		Generator:         gen,
		DefaultTopicFlags: cfg.DefaultTopicFlags,
		Source:            cli.Name(),
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return s, gen, cfg, nil
}

func runInitSubject(args []string) error {
	fs := flag.NewFlagSet("init-subject", flag.ExitOnError)
	name := fs.String("name", "", "subject name")
	cfgPath := fs.String("config", "", "config file (default folio.yaml)")
	_ = fs.Parse(args)
	if *name == "" {
		return fmt.Errorf("-name is required")
	}
	s, _, _, err := openStore(*cfgPath, true)
	if err != nil {
		return err
	}
	if err := s.InitializeSubject(*name); err != nil {
		return err
	}
	log.Printf("subject %q initialized under %s", *name, s.Base())
	return nil
}

func runInitModule(args []string) error {
	fs := flag.NewFlagSet("init-module", flag.ExitOnError)
	subject := fs.String("subject", "", "subject name")
	module := fs.String("module", "", "module name")
	syllabus := fs.String("syllabus", "", "path to the syllabus text file")
	offline := fs.Bool("offline", false, "derive topics with the line splitter instead of the model")
	cfgPath := fs.String("config", "", "config file (default folio.yaml)")
	_ = fs.Parse(args)
	if *subject == "" || *module == "" || *syllabus == "" {
		return fmt.Errorf("-subject, -module and -syllabus are required")
	}
	text, err := os.ReadFile(*syllabus)
	if err != nil {
		return err
	}
	s, _, _, err := openStore(*cfgPath, *offline)
	if err != nil {
		return err
	}
	if err := s.InitializeModule(context.Background(), *subject, *module, string(text)); err != nil {
		return err
	}
	log.Printf("module %q initialized in subject %q", *module, *subject)
	return nil
}

func runSave(args []string) error {
	fs := flag.NewFlagSet("save", flag.ExitOnError)
	subject := fs.String("subject", "", "subject name")
	topic := fs.String("topic", "", "topic name")
	kindArg := fs.String("kind", "", "content kind (explanation|visual_map|quiz|mnemonics|all)")
	offline := fs.Bool("offline", false, "use the deterministic fake client")
	cfgPath := fs.String("config", "", "config file (default folio.yaml)")
	_ = fs.Parse(args)
	if *subject == "" || *topic == "" || *kindArg == "" {
		return fmt.Errorf("-subject, -topic and -kind are required")
	}

	var kinds []studygen.ContentKind
	if *kindArg == "all" {
		kinds = studygen.AllKinds
	} else {
		k, err := studygen.ParseKind(*kindArg)
		if err != nil {
			return err
		}
		kinds = []studygen.ContentKind{k}
	}

	s, gen, cfg, err := openStore(*cfgPath, *offline)
	if err != nil {
		return err
	}
	cch, err := cache.New(cfg.CacheSize)
	if err != nil {
		return err
	}

	tree, err := s.LoadSubjectStructure()
	if err != nil {
		return err
	}
	subjectCtx, moduleName, moduleCtx := topicContext(tree, *subject, *topic)

	ctx := context.Background()
	for _, kind := range kinds {
		content, hit := cch.Get(*subject, moduleName, *topic, string(kind))
		if !hit {
			content, err = gen.Content(ctx, kind, *topic, subjectCtx, moduleCtx)
			if err != nil {
				return err
			}
			cch.Put(*subject, moduleName, *topic, string(kind), content)
		}
		if err := s.UpdateWebFolio(*subject, *topic, content, string(kind)); err != nil {
			return err
		}
		log.Printf("saved %s for %q in %q", kind, *topic, *subject)
	}
	return nil
}

// topicContext pulls the subject/module context strings the prompts use.
func topicContext(tree *scan.Tree, subject, topic string) (subjectCtx, moduleName, moduleCtx string) {
	subj, ok := tree.Subject(subject)
	if !ok {
		return "", "", ""
	}
	subjectCtx = subj.Context
	if subjectCtx == "" {
		subjectCtx = subj.Name
	}
	for _, m := range subj.Modules {
		for _, t := range m.Topics {
			if t.Name == topic {
				return subjectCtx, m.Name, m.Context
			}
		}
	}
	return subjectCtx, "", ""
}

func runScan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "print the tree as JSON")
	cfgPath := fs.String("config", "", "config file (default folio.yaml)")
	_ = fs.Parse(args)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	tree, err := scan.Load(cfg.Base)
	if err != nil {
		return err
	}
	if *asJSON {
		b, err := json.MarshalIndent(tree, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	}
	for _, s := range tree.Subjects {
		marker := ""
		if s.Unreadable {
			marker = " (unreadable)"
		}
		fmt.Printf("%s%s — %d modules, %d saved artifacts\n", s.Name, marker, len(s.Modules), len(s.Saved))
		for _, m := range s.Modules {
			marker = ""
			if m.Unreadable {
				marker = " (unreadable)"
			}
			fmt.Printf("  %s%s\n", m.Name, marker)
			for _, t := range m.Topics {
				fmt.Printf("    %s %v\n", t.Name, t.Kinds)
			}
		}
	}
	return nil
}

// logHook traces generative calls in the CLI log.
type logHook struct{}

func (logHook) Before(_ context.Context, kind, _ string, _ any) {
	log.Printf("generating %s", kind)
}

func (logHook) After(_ context.Context, kind string, _ json.RawMessage, err error) {
	if err != nil {
		log.Printf("generation of %s failed: %v", kind, err)
	}
}
