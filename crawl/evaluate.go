package crawl

import (
	"context"

	"github.com/fwojciec/ohscrap"
	"golang.org/x/sync/errgroup"
)

// Evaluate interprets sel against content in the page context pc. Pairs in
// sel crawl the pages they point to.
func (c *Crawler) Evaluate(ctx context.Context, sel ohscrap.Selector, content string, pc ohscrap.PageContext) (ohscrap.Value, error) {
	if err := ohscrap.Validate(sel); err != nil {
		return ohscrap.Absent(), err
	}
	return c.evaluateContent(ctx, sel, content, pc)
}

func (c *Crawler) evaluateContent(ctx context.Context, sel ohscrap.Selector, content string, pc ohscrap.PageContext) (ohscrap.Value, error) {
	doc, err := c.Querier.Parse(content)
	if err != nil {
		return ohscrap.Absent(), err
	}
	return c.evaluate(ctx, sel, doc, pc)
}

func (c *Crawler) evaluate(ctx context.Context, sel ohscrap.Selector, doc ohscrap.Document, pc ohscrap.PageContext) (ohscrap.Value, error) {
	switch s := sel.(type) {
	case ohscrap.Leaf:
		return c.evaluateLeaf(s, doc, pc)
	case ohscrap.Mapping:
		return c.evaluateMapping(ctx, s, doc, pc)
	case ohscrap.Pair:
		return c.evaluatePair(ctx, s, doc, pc)
	default:
		return ohscrap.Absent(), ohscrap.Errorf(ohscrap.EINVALIDSELECTOR, "selector type %T not valid", sel)
	}
}

// evaluateLeaf collapses the matched nodes: none is absent, one is a
// scalar, several are deduplicated in first-seen order with empty strings
// dropped afterwards, leaving a list, a scalar or absent.
func (c *Crawler) evaluateLeaf(leaf ohscrap.Leaf, doc ohscrap.Document, pc ohscrap.PageContext) (ohscrap.Value, error) {
	nodes, err := doc.Query(leaf.Path)
	if err != nil {
		return ohscrap.Absent(), err
	}

	switch nodes.Len() {
	case 0:
		if c.Config.Strict {
			return ohscrap.Absent(), ohscrap.Errorf(ohscrap.ENOELEMENT, "no element found: %s", leaf)
		}
		return ohscrap.Absent(), nil
	case 1:
		s, ok, err := c.extract(nodes, 0, leaf.Directive, pc)
		if err != nil || !ok {
			return ohscrap.Absent(), err
		}
		return ohscrap.String(s), nil
	}

	seen := make(map[string]bool, nodes.Len())
	var unique []string
	for i := 0; i < nodes.Len(); i++ {
		s, _, err := c.extract(nodes, i, leaf.Directive, pc)
		if err != nil {
			return ohscrap.Absent(), err
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		unique = append(unique, s)
	}

	matches := unique[:0]
	for _, s := range unique {
		if s != "" {
			matches = append(matches, s)
		}
	}

	switch len(matches) {
	case 0:
		return ohscrap.Absent(), nil
	case 1:
		return ohscrap.String(matches[0]), nil
	default:
		return ohscrap.Strings(matches...), nil
	}
}

// extract returns the scalar a directive yields for node i. ok is false
// when there is nothing to extract, such as a missing attribute.
func (c *Crawler) extract(nodes ohscrap.NodeSet, i int, directive string, pc ohscrap.PageContext) (string, bool, error) {
	switch directive {
	case ohscrap.DirectiveText:
		return nodes.Text(i), true, nil
	case ohscrap.DirectiveHTML:
		s, err := nodes.ParentHTML(i)
		if err != nil {
			return "", false, err
		}
		return s, true, nil
	case ohscrap.DirectiveURL:
		return pc.URL, pc.URL != "", nil
	case ohscrap.DirectiveMarkdown:
		if c.Converter == nil {
			return "", false, ohscrap.Errorf(ohscrap.EINVALID, "%s directive requires a converter", ohscrap.DirectiveMarkdown)
		}
		html, err := nodes.OuterHTML(i)
		if err != nil {
			return "", false, err
		}
		md, err := c.Converter.Convert(html, pc.BaseURL)
		if err != nil {
			return "", false, err
		}
		return md, true, nil
	default:
		s, ok := nodes.Attr(i, directive)
		return s, ok, nil
	}
}

// evaluateMapping evaluates every field against the same document. Results
// land in declaration order; the first error fails the whole mapping.
func (c *Crawler) evaluateMapping(ctx context.Context, m ohscrap.Mapping, doc ohscrap.Document, pc ohscrap.PageContext) (ohscrap.Value, error) {
	entries := make([]ohscrap.Entry, len(m.Fields))

	var g errgroup.Group
	g.SetLimit(c.concurrency())
	for i, f := range m.Fields {
		g.Go(func() error {
			v, err := c.evaluate(ctx, f.Value, doc, pc)
			if err != nil {
				return err
			}
			entries[i] = ohscrap.Entry{Key: f.Key, Value: v}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ohscrap.Absent(), err
	}

	return ohscrap.Object(entries...), nil
}

// evaluatePair follows the locations extracted by the source leaf and
// evaluates the target against each page.
func (c *Crawler) evaluatePair(ctx context.Context, p ohscrap.Pair, doc ohscrap.Document, pc ohscrap.PageContext) (ohscrap.Value, error) {
	source, err := c.evaluateLeaf(p.Source, doc, pc)
	if err != nil {
		return ohscrap.Absent(), err
	}

	if source.Kind() == ohscrap.KindString && c.isLocation(source.Str(), pc) {
		return c.crawl(ctx, source.Str(), p.Target, pc)
	}

	// Each list element is crawled on its own. Elements that are not
	// locations are evaluated as content and fetch nothing.
	if locations, ok := source.Strings(); ok {
		return c.crawlAll(ctx, locations, p.Target, pc)
	}

	if c.Config.Strict {
		return ohscrap.Absent(), ohscrap.Errorf(ohscrap.ENORESULT, "no result found: %s", p.Source)
	}
	return ohscrap.Absent(), nil
}

// crawlAll crawls locations concurrently and returns the results in input order.
func (c *Crawler) crawlAll(ctx context.Context, locations []string, sel ohscrap.Selector, pc ohscrap.PageContext) (ohscrap.Value, error) {
	results := make([]ohscrap.Value, len(locations))

	var g errgroup.Group
	g.SetLimit(c.concurrency())
	for i, location := range locations {
		g.Go(func() error {
			v, err := c.crawl(ctx, location, sel, pc)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ohscrap.Absent(), err
	}

	return ohscrap.List(results...), nil
}
