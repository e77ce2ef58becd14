//go:build darwin

package app

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa -framework WebKit

#include <stdlib.h>
#import <Cocoa/Cocoa.h>
#import <WebKit/WebKit.h>

// ----------------------------------------------------------
// Main-queue helper: AppKit objects must only be touched on
// the main thread. Reads use a synchronous hop so visibility
// reflects reality at call time.
// ----------------------------------------------------------
static void panelRunOnMain(void (^block)(void)) {
    if ([NSThread isMainThread]) {
        block();
    } else {
        dispatch_sync(dispatch_get_main_queue(), block);
    }
}

// ----------------------------------------------------------
// Create the floating panel window with an embedded WKWebView
// ----------------------------------------------------------
static int panelOpenWindow(int width, int height, void **outWindow, void **outWebView) {
    __block NSWindow *window = nil;
    __block WKWebView *webView = nil;

    panelRunOnMain(^{
        @autoreleasepool {
            NSScreen *screen = [NSScreen mainScreen];
            NSRect screenFrame = screen ? [screen frame] : NSMakeRect(0, 0, 1440, 900);

            CGFloat w = (CGFloat)width;
            CGFloat h = (CGFloat)height;
            // Offset in from the top-left corner so the panel never sits
            // flush against the screen edge.
            CGFloat x = screenFrame.origin.x + 100.0;
            CGFloat y = screenFrame.origin.y + screenFrame.size.height - h - 100.0;

            NSUInteger styleMask = NSWindowStyleMaskTitled | NSWindowStyleMaskClosable |
                                   NSWindowStyleMaskMiniaturizable | NSWindowStyleMaskResizable |
                                   NSWindowStyleMaskFullSizeContentView;

            window = [[NSWindow alloc] initWithContentRect:NSMakeRect(x, y, w, h)
                                                 styleMask:styleMask
                                                   backing:NSBackingStoreBuffered
                                                     defer:NO];
            if (!window) {
                return;
            }

            // No title bar chrome, but the window stays movable, resizable,
            // closable and miniaturizable.
            [window setTitlebarAppearsTransparent:YES];
            [window setTitleVisibility:NSWindowTitleHidden];
            [window setLevel:NSFloatingWindowLevel];
            [window setOpaque:YES];
            [window setHasShadow:YES];
            // The Go side owns the release decision; closing via the red
            // button must not deallocate the window behind our back.
            [window setReleasedWhenClosed:NO];

            WKWebViewConfiguration *config = [[WKWebViewConfiguration alloc] init];
            // Shared persistent store: cookies, cache and site data survive
            // across panel instances.
            [config setWebsiteDataStore:[WKWebsiteDataStore defaultDataStore]];

            webView = [[WKWebView alloc] initWithFrame:[[window contentView] bounds]
                                         configuration:config];
            [config release];
            if (!webView) {
                [window release];
                window = nil;
                return;
            }

            // The web view tracks the window as it resizes.
            [webView setAutoresizingMask:(NSViewWidthSizable | NSViewHeightSizable)];
            [[window contentView] addSubview:webView];
            // The content view now holds the only reference we need.
            [webView release];
        }
    });

    if (!window || !webView) {
        return -1;
    }
    *outWindow = (void *)window;
    *outWebView = (void *)webView;
    return 0;
}

// ----------------------------------------------------------
// Navigation: fire-and-forget loadRequest
// ----------------------------------------------------------
static void panelLoadURL(void *view, const char *urlStr) {
    // Copy to NSString before the hop; the caller frees the C string
    // right after this function returns.
    NSString *str = [[NSString alloc] initWithUTF8String:urlStr];

    panelRunOnMain(^{
        @autoreleasepool {
            WKWebView *webView = (WKWebView *)view;
            NSURL *url = [NSURL URLWithString:str];
            if (url) {
                [webView loadRequest:[NSURLRequest requestWithURL:url]];
            }
            // A malformed address yields a nil NSURL; the panel simply
            // keeps showing whatever it had.
        }
    });

    [str release];
}

// ----------------------------------------------------------
// Presentation toggle and live visibility query
// ----------------------------------------------------------
static void panelSetHidden(void *win, int hidden) {
    panelRunOnMain(^{
        NSWindow *window = (NSWindow *)win;
        if (hidden) {
            [window orderOut:nil];
        } else {
            [window makeKeyAndOrderFront:nil];
            [NSApp activateIgnoringOtherApps:YES];
        }
    });
}

static int panelIsVisible(void *win) {
    __block BOOL visible = NO;
    panelRunOnMain(^{
        visible = [(NSWindow *)win isVisible];
    });
    return visible ? 1 : 0;
}

// ----------------------------------------------------------
// Teardown: close a visible window before releasing it
// ----------------------------------------------------------
static void panelDestroy(void *win) {
    panelRunOnMain(^{
        NSWindow *window = (NSWindow *)win;
        if ([window isVisible]) {
            [window close];
        }
        [window release];
    });
}
*/
import "C"
import (
	"fmt"
	"unsafe"
)

// cocoaPanelWindow drives the NSWindow/WKWebView pair created on the
// native side. Every call hops to the main dispatch queue.
type cocoaPanelWindow struct {
	window  unsafe.Pointer
	webView unsafe.Pointer
}

// newNativeWebWindow creates the floating NSWindow with an embedded
// WKWebView sized to fill its content area.
func newNativeWebWindow(width, height int) (nativeWebWindow, error) {
	var window, webView unsafe.Pointer
	if C.panelOpenWindow(C.int(width), C.int(height), &window, &webView) != 0 {
		return nil, fmt.Errorf("could not create NSWindow/WKWebView pair")
	}
	return &cocoaPanelWindow{window: window, webView: webView}, nil
}

func (w *cocoaPanelWindow) Load(address string) {
	cURL := C.CString(address)
	defer C.free(unsafe.Pointer(cURL))

	C.panelLoadURL(w.webView, cURL)
}

func (w *cocoaPanelWindow) SetHidden(hidden bool) {
	if hidden {
		C.panelSetHidden(w.window, 1)
	} else {
		C.panelSetHidden(w.window, 0)
	}
}

func (w *cocoaPanelWindow) Visible() bool {
	return C.panelIsVisible(w.window) != 0
}

func (w *cocoaPanelWindow) Destroy() {
	C.panelDestroy(w.window)
}
