package etree

import (
	"fmt"
	"io"
	"strconv"

	"github.com/beevik/etree"
	"github.com/fwojciec/xmlidx"
)

// ReadConfig reads index declarations from XML of the form
//
//	<indexes workDir="..." strict="false" jobs="1">
//	  <index name="reflection" value="/reflection/apis/api" key="@id" cache="10" engine="sqlite">
//	    <data base="%DXROOT%\Data\Reflection" files="*.xml" recurse="true" system="true" database="..."/>
//	  </index>
//	</indexes>
//
// Index elements are found anywhere in the document. Defaults are applied
// but the result is not validated.
func ReadConfig(r io.Reader) (*xmlidx.Config, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, xmlidx.Errorf(xmlidx.EINVALID, "parsing configuration: %s", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, xmlidx.Errorf(xmlidx.EINVALID, "configuration has no root element")
	}

	c := &xmlidx.Config{WorkDir: root.SelectAttrValue("workDir", "")}
	var err error
	if c.Strict, err = boolAttr(root, "strict", false); err != nil {
		return nil, err
	}
	if c.Jobs, err = intAttr(root, "jobs", xmlidx.DefaultJobs); err != nil {
		return nil, err
	}

	for _, el := range doc.FindElements("//index") {
		idx := xmlidx.IndexConfig{
			Name:   el.SelectAttrValue("name", ""),
			Key:    el.SelectAttrValue("key", ""),
			Value:  el.SelectAttrValue("value", ""),
			Engine: el.SelectAttrValue("engine", ""),
		}
		if idx.Cache, err = intAttr(el, "cache", xmlidx.DefaultCacheSize); err != nil {
			return nil, err
		}

		for _, d := range el.SelectElements("data") {
			data := xmlidx.DataConfig{
				Base:     d.SelectAttrValue("base", ""),
				Files:    d.SelectAttrValue("files", ""),
				Database: d.SelectAttrValue("database", ""),
			}
			if data.Recurse, err = boolAttr(d, "recurse", false); err != nil {
				return nil, err
			}
			if data.System, err = boolAttr(d, "system", false); err != nil {
				return nil, err
			}
			if data.Transient, err = boolAttr(d, "transient", false); err != nil {
				return nil, err
			}
			if data.WarnOverride, err = boolAttr(d, "warnOverride", true); err != nil {
				return nil, err
			}
			idx.Data = append(idx.Data, data)
		}
		c.Indexes = append(c.Indexes, idx)
	}

	c.SetDefaults()
	return c, nil
}

func boolAttr(el *etree.Element, name string, dflt bool) (bool, error) {
	s := el.SelectAttrValue(name, "")
	if s == "" {
		return dflt, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, xmlidx.Errorf(xmlidx.EINVALID, "%s: %q is not a boolean", attrPath(el, name), s)
	}
	return v, nil
}

func intAttr(el *etree.Element, name string, dflt int) (int, error) {
	s := el.SelectAttrValue(name, "")
	if s == "" {
		return dflt, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, xmlidx.Errorf(xmlidx.EINVALID, "%s: %q is not an integer", attrPath(el, name), s)
	}
	return v, nil
}

func attrPath(el *etree.Element, name string) string {
	return fmt.Sprintf("%s/@%s", el.GetPath(), name)
}
