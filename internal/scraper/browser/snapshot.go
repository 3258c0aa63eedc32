package browser

import "github.com/go-rod/rod"

// snapshotJS walks the DOM depth-first and inlines shadow-root content and
// same-origin iframe documents so the result is one parseable HTML string.
// Component-framework portals keep the transaction table behind shadow
// roots; a plain page.HTML() returns only empty custom-element shells.
//
// Iframes nested inside shadow roots must be inlined before the shadow
// content is serialized: once shadow content is read as innerHTML the live
// contentDocument references are dead. Hence the bottom-up order.
const snapshotJS = `() => {
	const MAX_DEPTH = 100;

	function walk(node, depth) {
		if (depth > MAX_DEPTH) return;
		for (const child of Array.from(node.childNodes)) {
			if (child.nodeType !== Node.ELEMENT_NODE) continue;
			if (child.tagName === 'IFRAME') {
				inlineIframe(child, depth);
			} else if (child.shadowRoot) {
				inlineShadow(child, depth);
			} else {
				walk(child, depth + 1);
			}
		}
	}

	function inlineShadow(host, depth) {
		walk(host.shadowRoot, depth + 1);
		const container = document.createElement('div');
		container.setAttribute('data-shadow-host', host.tagName.toLowerCase());
		for (const child of Array.from(host.shadowRoot.childNodes)) {
			try { container.appendChild(child.cloneNode(true)); } catch (e) {}
		}
		host.appendChild(container);
	}

	function inlineIframe(iframe, depth) {
		try {
			const doc = iframe.contentDocument;
			if (!doc || !doc.documentElement) return;
			walk(doc.documentElement, depth + 1);
			const container = iframe.ownerDocument.createElement('div');
			container.setAttribute('data-inlined-iframe', iframe.src || '');
			if (doc.body) container.innerHTML = doc.body.innerHTML;
			iframe.parentNode.replaceChild(container, iframe);
		} catch (e) {
			// Cross-origin frame, leave it in place.
		}
	}

	walk(document.documentElement, 0);
	return document.documentElement.outerHTML;
}`

// SnapshotHTML returns the page's rendered HTML with shadow roots and
// same-origin iframes inlined. The live DOM is mutated in the process,
// which is acceptable because extraction reads each page exactly once.
// Falls back to plain page HTML when script evaluation fails.
func SnapshotHTML(page *rod.Page) (string, error) {
	res, err := page.Eval(snapshotJS)
	if err != nil {
		return page.HTML()
	}
	return res.Value.Str(), nil
}
